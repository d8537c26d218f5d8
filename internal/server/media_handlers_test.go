package server

import (
	"io"
	"net/http"
	"testing"

	"imageboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMedia(t *testing.T) {
	app, srv := setupTestServer(t)
	token := registerUser(t, srv, "alice")
	otherToken := registerUser(t, srv, "bob")

	original := testutil.TinyPNG(t, 24, 24)
	created := createPost(t, app, token, "with picture", []filePart{
		{Name: "photo.png", Content: original},
	})
	require.Len(t, created.PostImages, 1)
	mediaURL := created.PostImages[0].Image

	t.Run("Serves the stored bytes", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, mediaURL, nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

		served, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, original, served, "binaries must be stored byte-for-byte")
	})

	t.Run("Any authenticated user may fetch", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, mediaURL, nil, otherToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unauthenticated is 401", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, mediaURL, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown file is 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/media/posts/does-not-exist.png", nil, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
