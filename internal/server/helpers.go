package server

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"imageboard/internal/models"
	"imageboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// imagesFormKey is the multipart/urlencoded key carrying attached images.
// Its mere presence on update means "replace the whole image set".
const imagesFormKey = "post_images"

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", service.DefaultPageSize)
	offset := c.QueryInt("offset", 0)
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// postForm is a post create/update request decoded from either a multipart
// or urlencoded body. TextSet and ImagesSet record which keys the request
// actually carried, since an update distinguishes "absent" from "empty".
type postForm struct {
	Text      string
	TextSet   bool
	Uploads   []service.ImageUpload
	ImagesSet bool
}

// parsePostForm decodes the request body. Multipart bodies may carry file
// parts under post_images; urlencoded bodies may carry the key only to strip
// all images.
func parsePostForm(c *fiber.Ctx) (postForm, error) {
	var form postForm

	mf, err := c.MultipartForm()
	if err == nil {
		if values, ok := mf.Value["text"]; ok && len(values) > 0 {
			form.Text = values[0]
			form.TextSet = true
		}
		files, filesPresent := mf.File[imagesFormKey]
		_, valuePresent := mf.Value[imagesFormKey]
		form.ImagesSet = filesPresent || valuePresent
		for _, fh := range files {
			upload, err := readUpload(fh)
			if err != nil {
				return form, err
			}
			form.Uploads = append(form.Uploads, upload)
		}
		return form, nil
	}

	// Fall back to urlencoded form fields.
	args := c.Request().PostArgs()
	if args.Has("text") {
		form.Text = string(args.Peek("text"))
		form.TextSet = true
	}
	form.ImagesSet = args.Has(imagesFormKey)
	return form, nil
}

func readUpload(fh *multipart.FileHeader) (service.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.ImageUpload{}, models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return service.ImageUpload{}, models.NewInternalError(err)
	}
	return service.ImageUpload{FileName: fh.Filename, Content: content}, nil
}
