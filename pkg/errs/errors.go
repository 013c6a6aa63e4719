package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
)

var (
	ErrInternalServer          = errors.New("Internal server error")
	ErrClient                  = errors.New("Bad request")
	ErrNotFound                = errors.New("Resource not found")
	ErrInvalidObjectID         = errors.New("Invalid document id")
	ErrMissingUserEmail        = errors.New("userEmail is required")
	ErrMissingEmail            = errors.New("email is required")
	ErrMissingQueryID          = errors.New("queryId is required")
	ErrEmptyUpdatePayload      = errors.New("Update payload must not be empty")
	ErrReferencedQueryNotFound = errors.New("Referenced query not found")
)

var errorMap = map[error]int{
	ErrInternalServer:          ErrStatusInternalServer,
	ErrClient:                  ErrStatusClient,
	ErrNotFound:                ErrStatusNotFound,
	ErrInvalidObjectID:         ErrStatusClient,
	ErrMissingUserEmail:        ErrStatusClient,
	ErrMissingEmail:            ErrStatusClient,
	ErrMissingQueryID:          ErrStatusClient,
	ErrEmptyUpdatePayload:      ErrStatusClient,
	ErrReferencedQueryNotFound: ErrStatusNotFound,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
