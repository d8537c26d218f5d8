package seed

import (
	"fmt"
	"log"

	"imageboard/internal/models"
	"imageboard/internal/service"

	"gorm.io/gorm"
)

// Options controls what and how much data Seed creates.
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
	SkipBcrypt  bool
	MediaRoot   string
	RandSeed    int64
}

// Seed populates the database with generated users and posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("seeding database with %d users and %d posts", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	store, err := service.NewMediaStore(opts.MediaRoot)
	if err != nil {
		return fmt.Errorf("media store init failed: %w", err)
	}
	factory := NewFactory(db, store, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	if len(users) == 0 {
		return nil
	}
	for i := 0; i < opts.NumPosts; i++ {
		owner := users[factory.rng.Intn(len(users))]
		if _, err := factory.CreatePost(owner); err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
	}
	log.Printf("%d posts created", opts.NumPosts)

	log.Println("seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("clearing existing data")
	return db.Exec(`TRUNCATE TABLE post_images, posts, auth_tokens, users RESTART IDENTITY CASCADE`).Error
}
