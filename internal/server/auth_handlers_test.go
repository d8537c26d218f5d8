package server

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	app, _ := setupTestServer(t)

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"username": "new_user",
			"email":    "new@example.com",
			"password": "SecurePass12!@",
		}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "new_user", body["username"])
		assert.NotContains(t, body, "password")
	})

	t.Run("Duplicate username", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"username": "new_user",
			"email":    "other@example.com",
			"password": "SecurePass12!@",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Weak password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"username": "weak_user",
			"email":    "weak@example.com",
			"password": "short",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestIssueToken(t *testing.T) {
	app, srv := setupTestServer(t)
	registerUser(t, srv, "alice")

	t.Run("Valid credentials return the token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth", map[string]string{
			"username": "alice",
			"password": "SecurePass12!@",
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), body["token"])
	})

	t.Run("Token is stable across logins", func(t *testing.T) {
		first := decodeBody[map[string]string](t, doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth",
			map[string]string{"username": "alice", "password": "SecurePass12!@"}, ""))
		second := decodeBody[map[string]string](t, doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth",
			map[string]string{"username": "alice", "password": "SecurePass12!@"}, ""))
		assert.Equal(t, first["token"], second["token"])
	})

	t.Run("Urlencoded form accepted", func(t *testing.T) {
		resp := doForm(t, app, http.MethodPost, "/api/v1/api-token-auth", url.Values{
			"username": {"alice"},
			"password": {"SecurePass12!@"},
		}, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth", map[string]string{
			"username": "alice",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Wrong password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth", map[string]string{
			"username": "alice",
			"password": "WrongPass12!@",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/api-token-auth", map[string]string{
			"username": "ghost",
			"password": "SecurePass12!@",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
