package appsearch

import (
	"errors"

	"github.com/swiftype/app-search-go/internal/transport/rest"
)

// APIError is returned for any non-success HTTP status.
// Use errors.As to inspect the status code and server messages.
type APIError = rest.APIError

// Sentinel errors. Use errors.Is() to check.
var (
	// ErrNotFound matches an APIError with status 404.
	ErrNotFound = rest.ErrNotFound
	// ErrUnauthorized matches an APIError with status 401 or 403.
	ErrUnauthorized = rest.ErrUnauthorized
	// ErrInvalidDocument matches every *InvalidDocumentError.
	ErrInvalidDocument = errors.New("invalid document")
)

// InvalidDocumentError reports a document rejected either before submission
// (missing required fields) or by the server when indexed on its own.
type InvalidDocumentError struct {
	Message string
	// Document is the offending document, not a copy.
	Document Document
}

func (e *InvalidDocumentError) Error() string { return e.Message }

// Is reports whether target is ErrInvalidDocument.
func (e *InvalidDocumentError) Is(target error) bool { return target == ErrInvalidDocument }
