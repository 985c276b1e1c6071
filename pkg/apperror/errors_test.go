package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrTargetNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotOwner, http.StatusForbidden},
		{ErrDuplicateRating, http.StatusConflict},
		{ErrInvalidScore, http.StatusBadRequest},
		{ErrInvalidTag, http.StatusBadRequest},
		{ErrParentMismatch, http.StatusBadRequest},
		{ErrNestingTooDeep, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapErrorToStatus(tc.err), tc.err.Error())
	}

	// Wrapped errors still map through errors.Is.
	wrapped := fmt.Errorf("create rating: %w", ErrDuplicateRating)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(wrapped))
}

func TestAppErrorUnwrap(t *testing.T) {
	appErr := New(http.StatusConflict, "already rated", ErrDuplicateRating)
	assert.ErrorIs(t, appErr, ErrDuplicateRating)
	assert.Equal(t, ErrDuplicateRating.Error(), appErr.Error())
}
