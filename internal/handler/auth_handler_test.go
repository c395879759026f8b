package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"linguachat/internal/pkg/errs"
)

func TestHandleRegister(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	token, userID := env.registerUser(t, "Alice", "alice@example.com", "es")
	req.NotEmpty(token)
	req.NotEmpty(userID)

	// Same email again is a conflict.
	status, out := env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Name:     "Imposter",
		Email:    "alice@example.com",
		Password: "password123",
	})
	req.Equal(http.StatusBadRequest, status)
	req.Equal(errs.ErrUserAlreadyExists, out.Code)
}

func TestHandleRegister_Validation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	_, out := env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Email:    "not-an-email",
		Password: "password123",
	})
	req.Equal(errs.ErrInvalidEmail, out.Code)

	_, out = env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Email:    "short@example.com",
		Password: "tiny",
	})
	req.Equal(errs.ErrInvalidPassword, out.Code)

	_, out = env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Email:             "lang@example.com",
		Password:          "password123",
		PreferredLanguage: "spanish",
	})
	req.Equal(errs.ErrInvalidLanguage, out.Code)
}

func TestHandleLogin(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	env.registerUser(t, "Alice", "alice@example.com", "es")

	status, out := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	req.Equal(http.StatusOK, status)
	req.Equal(0, out.Code)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Email             string `json:"email"`
			PreferredLanguage string `json:"preferredLanguage"`
		} `json:"user"`
	}
	req.NoError(json.Unmarshal(out.Data, &data))
	req.NotEmpty(data.Token)
	req.Equal("alice@example.com", data.User.Email)
	req.Equal("es", data.User.PreferredLanguage)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	env.registerUser(t, "Alice", "alice@example.com", "")

	status, out := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	req.Equal(http.StatusUnauthorized, status)
	req.Equal(errs.ErrInvalidCredentials, out.Code)

	// Unknown accounts get the same answer as bad passwords.
	status, out = env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	req.Equal(http.StatusUnauthorized, status)
	req.Equal(errs.ErrInvalidCredentials, out.Code)
}

func TestHandleGetMe(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	token, userID := env.registerUser(t, "Alice", "alice@example.com", "es")

	status, out := env.doJSON(t, http.MethodGet, "/api/auth/me", token, nil)
	req.Equal(http.StatusOK, status)
	req.Equal(0, out.Code)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		IsOnline bool `json:"isOnline"`
	}
	req.NoError(json.Unmarshal(out.Data, &data))
	req.Equal(userID, data.User.ID)
	req.False(data.IsOnline)
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	status, out := env.doJSON(t, http.MethodGet, "/api/auth/me", "", nil)
	req.Equal(http.StatusUnauthorized, status)
	req.Equal(errs.ErrUnauthorized, out.Code)

	status, out = env.doJSON(t, http.MethodGet, "/api/friends/", "garbage-token", nil)
	req.Equal(http.StatusUnauthorized, status)
	req.Equal(errs.ErrUnauthorized, out.Code)
}

func TestHandleUpdateProfile(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	token, userID := env.registerUser(t, "Alice", "alice@example.com", "")

	status, out := env.doJSON(t, http.MethodPost, "/api/auth/profile", token, UpdateProfileInput{
		PreferredLanguage: "fr",
	})
	req.Equal(http.StatusOK, status)
	req.Equal(0, out.Code)

	// The relay consults the stored value, so verify it through the repository.
	lang, err := env.repo.PreferredLanguage(context.Background(), userID)
	req.NoError(err)
	req.Equal("fr", lang)

	_, out = env.doJSON(t, http.MethodPost, "/api/auth/profile", token, UpdateProfileInput{
		PreferredLanguage: "klingon",
	})
	req.Equal(errs.ErrInvalidLanguage, out.Code)
}
