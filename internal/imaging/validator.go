// Package imaging validates uploaded image payloads. Validation is pure:
// no I/O, no persistence, just a verdict on the bytes.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"strings"

	"imageboard/internal/models"
	"imageboard/internal/observability"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultMaxSizeBytes caps uploaded images at 200 KiB.
const DefaultMaxSizeBytes = 200 * 1024

// Validator checks uploaded payloads against a size cap and the set of
// decodable raster formats (jpeg, png, gif, webp).
type Validator struct {
	maxSizeBytes int64
}

// NewValidator returns a Validator with the given size cap in bytes.
// A non-positive cap falls back to DefaultMaxSizeBytes.
func NewValidator(maxSizeBytes int64) *Validator {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Validator{maxSizeBytes: maxSizeBytes}
}

// MaxSizeBytes returns the configured cap.
func (v *Validator) MaxSizeBytes() int64 {
	return v.maxSizeBytes
}

// Validate accepts or rejects a single uploaded payload. Every rejection is a
// validation error naming the offending file, so callers can surface it
// directly as a 400 response.
func (v *Validator) Validate(content []byte, filename string) error {
	if len(content) == 0 {
		observability.ImageUploadsRejected.WithLabelValues("empty").Inc()
		return models.NewValidationError(fmt.Sprintf("%s: empty file", displayName(filename)))
	}
	if int64(len(content)) > v.maxSizeBytes {
		observability.ImageUploadsRejected.WithLabelValues("too_large").Inc()
		return models.NewValidationError(fmt.Sprintf("%s: file too large (max %d KiB)",
			displayName(filename), v.maxSizeBytes/1024))
	}

	if !isAllowedImageMIME(http.DetectContentType(content)) {
		observability.ImageUploadsRejected.WithLabelValues("invalid_type").Inc()
		return models.NewValidationError(fmt.Sprintf("%s: not a supported image type", displayName(filename)))
	}

	// Sniffing alone accepts truncated or corrupt files; require that the
	// header actually parses as one of the registered formats.
	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil || !isSupportedDecodedFormat(format) {
		observability.ImageUploadsRejected.WithLabelValues("undecodable").Inc()
		return models.NewValidationError(fmt.Sprintf("%s: invalid image file", displayName(filename)))
	}

	observability.ImageUploadsAccepted.Inc()
	return nil
}

// ValidateAll validates a batch and stops at the first failure, returning its
// error. Used by create/update so that no payload is persisted when any
// sibling payload is rejected.
func (v *Validator) ValidateAll(contents [][]byte, filenames []string) error {
	for i, content := range contents {
		name := ""
		if i < len(filenames) {
			name = filenames[i]
		}
		if err := v.Validate(content, name); err != nil {
			return err
		}
	}
	return nil
}

// DetectContentType returns the sniffed MIME type for an accepted payload.
func DetectContentType(content []byte) string {
	return normalizeContentType(http.DetectContentType(content))
}

func displayName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "uploaded file"
	}
	return name
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
