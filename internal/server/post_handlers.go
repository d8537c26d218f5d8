package server

import (
	"imageboard/internal/models"
	"imageboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/v1/posts
// @Summary Create a post
// @Description Create a text post with zero or more attached images
// @Tags posts
// @Accept mpfd
// @Produce json
// @Param text formData string true "Post text"
// @Param post_images formData file false "Attached images (repeatable)"
// @Success 201 {object} models.PostRepresentation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	rep, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: currentUserID(c),
		Text:   form.Text,
		Images: form.Uploads,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(rep)
}

// GetPosts handles GET /api/v1/posts
// @Summary List posts
// @Description List posts newest-first with limit/offset pagination
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.PostRepresentation
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)

	reps, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(reps)
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostRepresentation
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rep, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(rep)
}

// UpdatePost handles PUT and PATCH /api/v1/posts/:id
// @Summary Update a post
// @Description Update text and/or replace the image set. Supplying the post_images key, even with zero files, replaces all images; omitting it leaves them untouched. Author and pub_date never change.
// @Tags posts
// @Accept mpfd
// @Produce json
// @Param id path int true "Post ID"
// @Param text formData string false "New post text"
// @Param post_images formData file false "Replacement images (repeatable)"
// @Success 200 {object} models.PostRepresentation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	in := service.UpdatePostInput{
		UserID:        currentUserID(c),
		PostID:        id,
		Images:        form.Uploads,
		ReplaceImages: form.ImagesSet,
	}
	if form.TextSet {
		in.Text = &form.Text
	}

	rep, err := s.postService.UpdatePost(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(rep)
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete a post
// @Description Delete a post together with its images and their stored binaries
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
