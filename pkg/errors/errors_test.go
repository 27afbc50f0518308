package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("Chat", nil), CodeNotFound, http.StatusNotFound},
		{BadRequest("bad", nil), CodeBadRequest, http.StatusBadRequest},
		{Unauthorized("no", nil), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("no", nil), CodeForbidden, http.StatusForbidden},
		{Conflict("taken", nil), CodeConflict, http.StatusConflict},
		{Internal("oops", nil), CodeInternal, http.StatusInternalServerError},
		{TooManyRequests("slow down", nil), CodeTooManyRequests, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
	assert.Equal(t, "Chat not found", NotFound("Chat", nil).Message)
}

func TestIsFollowsWrapping(t *testing.T) {
	base := NotFound("User", stderrors.New("rpc error"))
	wrapped := fmt.Errorf("hydrate: %w", base)

	assert.True(t, Is(wrapped, CodeNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, Is(wrapped, CodeConflict))
	assert.False(t, Is(stderrors.New("plain"), CodeNotFound))
}

func TestAsAppError(t *testing.T) {
	conflict := Conflict("taken", nil)

	got, ok := AsAppError(fmt.Errorf("reserve: %w", conflict))
	assert.True(t, ok)
	assert.Same(t, conflict, got)

	got, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestWrapKeepsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("transaction: %w", Conflict("Food item is no longer available", nil))

	assert.Same(t, wrapped, Wrap(wrapped, "Failed to reserve food item"))
	assert.True(t, Is(Wrap(wrapped, "ignored"), CodeConflict))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	conflict := Conflict("taken", nil)
	assert.Same(t, conflict, Wrap(conflict, "ignored"))

	plain := stderrors.New("deadline exceeded")
	wrapped := Wrap(plain, "Failed to create chat")
	assert.True(t, Is(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, plain)
}
