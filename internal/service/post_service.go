package service

import (
	"context"
	"strings"
	"time"

	"imageboard/internal/cache"
	"imageboard/internal/imaging"
	"imageboard/internal/models"
	"imageboard/internal/repository"
)

const (
	maxTextLen = 50000

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ImageUpload is one uploaded file part: the client-supplied name (used only
// for error messages and the stored extension) and the raw bytes.
type ImageUpload struct {
	FileName string
	Content  []byte
}

type PostService struct {
	postRepo  repository.PostRepository
	validator *imaging.Validator
	store     *MediaStore
}

type CreatePostInput struct {
	UserID uint
	Text   string
	Images []ImageUpload
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

// UpdatePostInput carries a partial update. Text is a pointer so "absent" and
// "empty string" stay distinct; ReplaceImages mirrors whether the request
// carried the post_images key at all, since supplying the key with zero files
// strips every image while omitting it leaves the set untouched.
type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Text          *string
	Images        []ImageUpload
	ReplaceImages bool
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, validator *imaging.Validator, store *MediaStore) *PostService {
	return &PostService{postRepo: postRepo, validator: validator, store: store}
}

// CreatePost validates every attached image before anything is persisted,
// then stores the binaries and inserts the post with its image rows in one
// transaction. PubDate is server time.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (models.PostRepresentation, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.PostRepresentation{}, models.NewValidationError("text is required")
	}
	if len(text) > maxTextLen {
		return models.PostRepresentation{}, models.NewValidationError("text too long (max 50000 characters)")
	}
	if err := s.validateUploads(in.Images); err != nil {
		return models.PostRepresentation{}, err
	}

	images, err := s.storeUploads(in.Images)
	if err != nil {
		return models.PostRepresentation{}, err
	}

	post := &models.Post{
		Text:    text,
		PubDate: time.Now().UTC(),
		UserID:  in.UserID,
		Images:  images,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeBinaries(images)
		return models.PostRepresentation{}, err
	}

	cache.InvalidatePostsList(ctx)

	// Reload so the representation carries the author's username.
	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return models.PostRepresentation{}, err
	}
	return created.Representation(), nil
}

// GetPost returns the API representation for a post, cache-aside.
func (s *PostService) GetPost(ctx context.Context, id uint) (models.PostRepresentation, error) {
	var rep models.PostRepresentation
	err := cache.Aside(ctx, cache.PostKey(id), &rep, cache.PostTTL, func() error {
		post, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		rep = post.Representation()
		return nil
	})
	if err != nil {
		return models.PostRepresentation{}, err
	}
	return rep, nil
}

// ListPosts returns a page of posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostRepresentation, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	reps := []models.PostRepresentation{}
	err := cache.Aside(ctx, cache.PostsListKey(limit, offset), &reps, cache.PostsListTTL, func() error {
		posts, err := s.postRepo.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		reps = make([]models.PostRepresentation, 0, len(posts))
		for _, p := range posts {
			reps = append(reps, p.Representation())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reps, nil
}

// UpdatePost applies a partial update. Only the author may modify a post;
// pub_date and author never change. When ReplaceImages is set the supplied
// uploads become the post's entire image set and the previous binaries are
// removed after the transaction commits.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (models.PostRepresentation, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return models.PostRepresentation{}, err
	}
	if !MayWrite(in.UserID, post) {
		return models.PostRepresentation{}, models.NewForbiddenError("You do not have permission to modify this post")
	}

	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return models.PostRepresentation{}, models.NewValidationError("text cannot be blank")
		}
		if len(text) > maxTextLen {
			return models.PostRepresentation{}, models.NewValidationError("text too long (max 50000 characters)")
		}
		post.Text = text
	}

	var newImages []models.PostImage
	if in.ReplaceImages {
		if err := s.validateUploads(in.Images); err != nil {
			return models.PostRepresentation{}, err
		}
		newImages, err = s.storeUploads(in.Images)
		if err != nil {
			return models.PostRepresentation{}, err
		}
	}

	removed, err := s.postRepo.Update(ctx, post, newImages, in.ReplaceImages)
	if err != nil {
		s.removeBinaries(newImages)
		return models.PostRepresentation{}, err
	}
	s.removeBinaries(removed)

	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)

	return post.Representation(), nil
}

// DeletePost removes a post, its image rows, and their stored binaries.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !MayWrite(in.UserID, post) {
		return models.NewForbiddenError("You do not have permission to delete this post")
	}

	removed, err := s.postRepo.Delete(ctx, in.PostID)
	if err != nil {
		return err
	}
	s.removeBinaries(removed)

	cache.InvalidatePost(ctx, in.PostID)
	cache.InvalidatePostsList(ctx)
	return nil
}

// GetImage resolves a stored file name for the media endpoint. Unknown names
// are a 404.
func (s *PostService) GetImage(ctx context.Context, fileName string) (*models.PostImage, error) {
	image, err := s.postRepo.GetImageByFileName(ctx, fileName)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, models.NewNotFoundError("Image", fileName)
	}
	return image, nil
}

func (s *PostService) validateUploads(uploads []ImageUpload) error {
	contents := make([][]byte, len(uploads))
	names := make([]string, len(uploads))
	for i, u := range uploads {
		contents[i] = u.Content
		names[i] = u.FileName
	}
	return s.validator.ValidateAll(contents, names)
}

// storeUploads writes each upload to the media store and returns the image
// rows to insert. On a mid-batch failure the already-written files are
// removed before the error is returned.
func (s *PostService) storeUploads(uploads []ImageUpload) ([]models.PostImage, error) {
	images := make([]models.PostImage, 0, len(uploads))
	for _, u := range uploads {
		fileName, storagePath, err := s.store.Save(u.Content, u.FileName)
		if err != nil {
			s.removeBinaries(images)
			return nil, models.NewInternalError(err)
		}
		images = append(images, models.PostImage{
			FileName:    fileName,
			StoragePath: storagePath,
			ContentType: imaging.DetectContentType(u.Content),
			SizeBytes:   int64(len(u.Content)),
		})
	}
	return images, nil
}

func (s *PostService) removeBinaries(images []models.PostImage) {
	for _, img := range images {
		s.store.Remove(img.StoragePath)
	}
}
