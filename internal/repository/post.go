package repository

import (
	"context"
	"errors"

	"imageboard/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and their attached
// images. Mutations that touch the image set run inside a transaction so a
// post row and its image rows never diverge.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, images []models.PostImage, replaceImages bool) ([]models.PostImage, error)
	Delete(ctx context.Context, id uint) ([]models.PostImage, error)
	GetImageByFileName(ctx context.Context, fileName string) (*models.PostImage, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post together with any attached image rows. GORM runs
// the association inserts in a single transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.id ASC")
		}).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns posts newest-first by publication date.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.id ASC")
		}).
		Order("pub_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update persists the post's mutable columns and, when replaceImages is set,
// swaps the entire image set for the given rows in the same transaction.
// replaceImages with an empty slice strips the post of all images. The
// returned rows are the images that were removed, so the caller can clean up
// their stored binaries after commit.
func (r *postRepository) Update(ctx context.Context, post *models.Post, images []models.PostImage, replaceImages bool) ([]models.PostImage, error) {
	var removed []models.PostImage

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Update("text", post.Text).Error; err != nil {
			return err
		}
		if !replaceImages {
			return nil
		}

		if err := tx.Where("post_id = ?", post.ID).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) > 0 {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
		}
		for i := range images {
			images[i].ID = 0
			images[i].PostID = post.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if replaceImages {
		post.Images = images
	}
	return removed, nil
}

// Delete removes the post and its image rows in one transaction, returning
// the removed image rows for binary cleanup.
func (r *postRepository) Delete(ctx context.Context, id uint) ([]models.PostImage, error) {
	var removed []models.PostImage

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) > 0 {
			if err := tx.Where("post_id = ?", id).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return removed, nil
}

// GetImageByFileName resolves a stored file name to its image row. Returns
// (nil, nil) when the name is unknown.
func (r *postRepository) GetImageByFileName(ctx context.Context, fileName string) (*models.PostImage, error) {
	var image models.PostImage
	err := r.db.WithContext(ctx).Where("file_name = ?", fileName).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}
