package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorMatchesSentinels(t *testing.T) {
	assert.ErrorIs(t, NewNotFoundError("job 4"), ErrNotFound)
	assert.ErrorIs(t, NewAccessDeniedError("not owner"), ErrAccessDenied)
	assert.ErrorIs(t, NewValidationError("title"), ErrValidation)
	assert.ErrorIs(t, NewConflictError("dup"), ErrConflict)
	assert.NotErrorIs(t, NewNotFoundError("job 4"), ErrAccessDenied)

	wrapped := fmt.Errorf("edit job: %w", NewAccessDeniedError("not owner"))
	assert.ErrorIs(t, wrapped, ErrAccessDenied)
	assert.Equal(t, http.StatusForbidden, StatusCode(wrapped))
}

func TestExternalErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExternalError("smtp", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrExternal)
	assert.Equal(t, "smtp failed: connection refused", err.Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusCode(fmt.Errorf("x: %w", ErrConflict)))
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(NewTooManyRequestsError("slow down")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("Email", "Email is already registered.")
	assert.Equal(t, "Email is already registered.", err.Fields["Email"])
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"logo.png":            "logo.png",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\cv.jpg`:  "cv.jpg",
		"my photo (1).jpeg":   "my_photo_1_.jpeg",
		"":                    "image",
		"..":                  "image",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}

func TestIsLocalURL(t *testing.T) {
	assert.True(t, IsLocalURL("/"))
	assert.True(t, IsLocalURL("/Jobs/Details/3"))
	assert.False(t, IsLocalURL(""))
	assert.False(t, IsLocalURL("//evil.example"))
	assert.False(t, IsLocalURL("https://evil.example/"))
	assert.False(t, IsLocalURL(`/\evil.example`))
}
