package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidDiscount, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		// wrapped sentinels keep their mapping
		{errors.Wrap(ErrNotFound, "cart abc123"), http.StatusNotFound},
		{errors.Wrapf(ErrInvalidDiscount, "code %q", "SUMMER15"), http.StatusBadRequest},
	}
	for _, tc := range tests {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
