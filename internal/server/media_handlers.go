package server

import (
	"os"

	"imageboard/internal/middleware"
	"imageboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMedia handles GET /api/v1/media/posts/:filename
// @Summary Serve a stored post image
// @Description Return the binary for an attached image by its stored file name
// @Tags media
// @Produce octet-stream
// @Param filename path string true "Stored file name"
// @Success 200
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /media/posts/{filename} [get]
func (s *Server) GetMedia(c *fiber.Ctx) error {
	fileName := c.Params("filename")

	image, err := s.postService.GetImage(c.UserContext(), fileName)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	content, err := os.ReadFile(image.StoragePath)
	if err != nil {
		// The row exists but the binary is gone; treat as missing rather
		// than leaking the storage path.
		middleware.Logger.ErrorContext(c.UserContext(), "stored media file unreadable",
			"file", image.FileName, "error", err)
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image", fileName))
	}

	if image.ContentType != "" {
		c.Set(fiber.HeaderContentType, image.ContentType)
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
	return c.Send(content)
}
