// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imageboard/internal/middleware"

	"github.com/google/uuid"
)

// MediaStore persists image binaries on disk under <root>/posts. Stored names
// are fresh UUIDs, so uploads never collide and client-chosen names never
// reach the filesystem.
type MediaStore struct {
	root string
}

// NewMediaStore ensures the storage directory exists and returns the store.
func NewMediaStore(root string) (*MediaStore, error) {
	dir := filepath.Join(root, "posts")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	return &MediaStore{root: root}, nil
}

// Save writes content to disk and returns the generated file name and the
// absolute storage path. The extension is carried over from the upload when
// it looks like an image extension.
func (s *MediaStore) Save(content []byte, originalName string) (fileName, storagePath string, err error) {
	fileName = uuid.NewString() + safeExtension(originalName)
	storagePath = filepath.Join(s.root, "posts", fileName)
	if err := os.WriteFile(storagePath, content, 0o600); err != nil {
		return "", "", fmt.Errorf("write media file: %w", err)
	}
	return fileName, storagePath, nil
}

// Remove deletes a stored binary. Best-effort: the database rows are the
// source of truth, so a failed removal is logged and otherwise ignored.
func (s *MediaStore) Remove(storagePath string) {
	if storagePath == "" {
		return
	}
	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		middleware.Logger.Warn("failed to remove media file",
			"path", storagePath, "error", err)
	}
}

func safeExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".img"
	}
}
