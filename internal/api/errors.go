package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/pkg/nx"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// classify maps an error from the catalog or reader to an HTTP status and an
// error type for the response envelope.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, catalog.ErrInvalidName):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, nx.ErrNotFound):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, nx.ErrTypeMismatch), errors.Is(err, nx.ErrParse):
		return http.StatusBadRequest, "conversion_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
