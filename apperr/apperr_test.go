package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("title too short"), http.StatusUnprocessableEntity},
		{Unauthenticated("token expired"), http.StatusUnauthorized},
		{Forbidden("not the post owner"), http.StatusForbidden},
		{NotFound("no such post"), http.StatusNotFound},
		{Conflict("email already registered"), http.StatusConflict},
		{Internal("insert failed", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err))
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("while updating: %w", Forbidden("not the post owner"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.True(t, errors.Is(err, Forbidden("")))
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := Internal("mongo insert failed", errors.New("connection reset"))
	assert.Equal(t, "internal server error", Message(err))

	assert.Equal(t, "no such post", Message(NotFound("no such post")))
}

func TestExtensionsCarryCode(t *testing.T) {
	ext := Conflict("email already registered").Extensions()
	assert.Equal(t, http.StatusConflict, ext["code"])
}
