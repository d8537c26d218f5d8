// Package seed creates demo data for development databases. Not used in
// production.
package seed

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"time"

	"imageboard/internal/imaging"
	"imageboard/internal/models"
	"imageboard/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	store *service.MediaStore
	rng   *rand.Rand
	opts  Options
}

// NewFactory creates a Factory bound to the given database and media store.
func NewFactory(db *gorm.DB, store *service.MediaStore, opts Options) *Factory {
	seedVal := opts.RandSeed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	gofakeit.Seed(seedVal)
	return &Factory{
		db:    db,
		store: store,
		rng:   rand.New(rand.NewSource(seedVal)),
		opts:  opts,
	}
}

// CreateUser persists a generated account. Every seed account shares the
// password "password123" so demo logins are predictable.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a generated post for the user, attaching 0-3 generated
// images unless overridden. pub_date is spread over the recent past so lists
// look realistic.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute

	post := &models.Post{
		Text:    gofakeit.Paragraph(1, 3, 8, "\n"),
		PubDate: time.Now().UTC().Add(-back),
		UserID:  user.ID,
	}

	imageCount := f.rng.Intn(4)
	for i := 0; i < imageCount; i++ {
		img, err := f.buildImage()
		if err != nil {
			return nil, err
		}
		post.Images = append(post.Images, *img)
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// buildImage renders a small solid-color PNG and stores it through the media
// store, returning the row to attach.
func (f *Factory) buildImage() (*models.PostImage, error) {
	content, err := renderPNG(f.rng, 64+f.rng.Intn(192), 64+f.rng.Intn(192))
	if err != nil {
		return nil, err
	}

	fileName, storagePath, err := f.store.Save(content, gofakeit.Word()+".png")
	if err != nil {
		return nil, err
	}
	return &models.PostImage{
		FileName:    fileName,
		StoragePath: storagePath,
		ContentType: imaging.DetectContentType(content),
		SizeBytes:   int64(len(content)),
	}, nil
}

func renderPNG(rng *rand.Rand, w, h int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
