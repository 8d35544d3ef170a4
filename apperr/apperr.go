package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Sentinel errors for the failure categories every handler maps onto HTTP.
// Wrap them with errors.Wrap/Wrapf to add context; Status unwraps with
// errors.Is so wrapped values still map to the right code.
var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDiscount = errors.New("invalid discount code")
	ErrConflict        = errors.New("conflicting concurrent update")
)

// Status maps an error to its HTTP status code. Anything outside the taxonomy
// is an internal error.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidDiscount):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
