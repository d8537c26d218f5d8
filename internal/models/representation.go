package models

import "time"

// MediaURLPrefix is the public URL prefix under which stored post images are
// served.
const MediaURLPrefix = "/api/v1/media/posts/"

// PostImageRef is the wire form of an attached image: its row ID and the URL
// the binary is served from.
type PostImageRef struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// PostRepresentation is the API shape of a post. It is a plain data struct so
// it survives a JSON round trip through the cache unchanged.
type PostRepresentation struct {
	ID         uint           `json:"id"`
	Text       string         `json:"text"`
	PubDate    time.Time      `json:"pub_date"`
	Author     string         `json:"author"`
	PostImages []PostImageRef `json:"post_images"`
}

// URL returns the public media URL for a stored image.
func (i PostImage) URL() string {
	return MediaURLPrefix + i.FileName
}

// Representation builds the API shape for a post. The post must have its
// User and Images associations loaded.
func (p *Post) Representation() PostRepresentation {
	refs := make([]PostImageRef, 0, len(p.Images))
	for _, img := range p.Images {
		refs = append(refs, PostImageRef{ID: img.ID, Image: img.URL()})
	}
	return PostRepresentation{
		ID:         p.ID,
		Text:       p.Text,
		PubDate:    p.PubDate,
		Author:     p.User.Username,
		PostImages: refs,
	}
}
