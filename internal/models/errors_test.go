package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewValidationError("x"), http.StatusBadRequest},
		{NewInvalidCredentialsError(), http.StatusBadRequest},
		{NewDuplicateAccountError(), http.StatusBadRequest},
		{NewNoProfileError(), http.StatusBadRequest},
		{NewAlreadyLikedError(), http.StatusBadRequest},
		{NewNotLikedError(), http.StatusBadRequest},
		{NewUnauthenticatedError(), http.StatusUnauthorized},
		{NewInvalidTokenError(nil), http.StatusUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewNotFoundError("Post not found"), http.StatusNotFound},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("gone")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func respond(t *testing.T, err error) (*http.Response, []byte) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, StatusFor(err), err)
	})
	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	_ = resp.Body.Close()
	return resp, body
}

func TestRespondWithError_ValidationShape(t *testing.T) {
	resp, body := respond(t, NewFieldErrors([]FieldError{
		{Msg: "Name is required", Param: "name"},
		{Msg: "Please include a valid email", Param: "email"},
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out ValidationResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Errors, 2)
	assert.Equal(t, "name", out.Errors[0].Param)
	assert.Equal(t, "email", out.Errors[1].Param)
}

func TestRespondWithError_DomainShape(t *testing.T) {
	resp, body := respond(t, NewForbiddenError("User not authorized"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "User not authorized", out.Msg)
	assert.Equal(t, CodeForbidden, out.Code)
}

func TestRespondWithError_InternalHidesCause(t *testing.T) {
	resp, body := respond(t, NewInternalError(errors.New("pq: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server Error", string(body))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewAlreadyLikedError())
	assert.True(t, IsCode(err, CodeAlreadyLiked))
	assert.False(t, IsCode(err, CodeNotLiked))
	assert.False(t, IsCode(errors.New("x"), CodeAlreadyLiked))
}
