package exceptions_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"foodgram.io/backend/internal/exceptions"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[string]struct {
		err      error
		expected int
	}{
		"NotFound":       {exceptions.NotFound("recipe", "abc"), http.StatusNotFound},
		"Conflict":       {exceptions.Conflict("recipe", "abc"), http.StatusConflict},
		"InvalidInput":   {exceptions.InvalidInput("bad"), http.StatusBadRequest},
		"Unauthorized":   {exceptions.Unauthorized("who"), http.StatusUnauthorized},
		"Forbidden":      {exceptions.Forbidden("no"), http.StatusForbidden},
		"InternalServer": {exceptions.InternalServer("oops"), http.StatusInternalServerError},
		"Wrapped":        {fmt.Errorf("lookup: %w", exceptions.NotFound("recipe", "abc")), http.StatusNotFound},
		"Unknown":        {errors.New("unknown"), http.StatusInternalServerError},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, exceptions.StatusCode(c.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, exceptions.IsNotFound(fmt.Errorf("wrapped: %w", exceptions.NotFound("tag", "1"))))
	assert.False(t, exceptions.IsNotFound(exceptions.Conflict("tag", "1")))
	assert.True(t, exceptions.IsConflict(exceptions.Conflict("tag", "1")))
	assert.Equal(t, "Could not find a tag with id: 1", exceptions.NotFound("tag", "1").Error())
}
