package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"imageboard/internal/config"
	"imageboard/internal/database"
	"imageboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()
	os.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:                  "test",
		Port:                 "0",
		MediaRoot:            t.TempDir(),
		ImageMaxUploadSizeKB: 200,
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv
}

// registerUser creates an account through the service layer and returns its
// API token key.
func registerUser(t *testing.T, srv *Server, username string) string {
	t.Helper()
	ctx := context.Background()

	user, err := srv.authService.Signup(ctx, service.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "SecurePass12!@",
	})
	require.NoError(t, err)

	token, err := srv.tokenRepo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	return token.Key
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doForm(t *testing.T, app *fiber.App, method, path string, values url.Values, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// filePart is one post_images file in a multipart request body.
type filePart struct {
	Name    string
	Content []byte
}

// multipartBody builds a multipart form. A nil files slice omits the
// post_images key entirely; an empty non-nil slice sends the key with no
// files, which on update means "remove every image".
func multipartBody(t *testing.T, text *string, files []filePart) (io.Reader, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if text != nil {
		require.NoError(t, w.WriteField("text", *text))
	}
	if files != nil && len(files) == 0 {
		require.NoError(t, w.WriteField("post_images", ""))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("post_images", f.Name)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, app *fiber.App, method, path string, body io.Reader, contentType, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func strPtr(s string) *string { return &s }
