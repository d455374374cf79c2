package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a coded error with an associated HTTP status. The code is
// stable across releases so clients can match on it.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrUploadFileNotImage is returned when an uploaded payload does not
	// carry an image mimetype. No storage I/O happens after this error.
	ErrUploadFileNotImage = &Error{
		Code:       "TERR001",
		Message:    "uploaded file is not an image",
		StatusCode: http.StatusBadRequest,
	}

	// ErrUndefinedItem is returned when an operation is attempted without
	// an item id. Building a storage key from an empty id is a contract
	// violation, never a silent fallback.
	ErrUndefinedItem = &Error{
		Code:       "TERR002",
		Message:    "item id is undefined",
		StatusCode: http.StatusMethodNotAllowed,
	}

	// ErrInvalidSize is returned when a requested size label is not one of
	// the known size variants.
	ErrInvalidSize = &Error{
		Code:       "TERR003",
		Message:    "invalid thumbnail size",
		StatusCode: http.StatusBadRequest,
	}
)

// ErrNotFound signals that no object exists at the requested storage key.
// Storage providers translate their backend-specific absence signal into
// this sentinel so callers can distinguish it from transport failures.
var ErrNotFound = errors.New("object not found")

// IsNotFound reports whether err represents a missing storage object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode returns the HTTP status for err, defaulting to 500 for
// anything that is not a coded or not-found error.
func StatusCode(err error) int {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.StatusCode
	}
	if IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
