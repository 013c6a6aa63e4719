package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GetErrorStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetErrorStatusCode(ErrInvalidObjectID))
	assert.Equal(t, http.StatusBadRequest, GetErrorStatusCode(ErrMissingUserEmail))
	assert.Equal(t, http.StatusNotFound, GetErrorStatusCode(ErrNotFound))
	assert.Equal(t, http.StatusNotFound, GetErrorStatusCode(ErrReferencedQueryNotFound))
	assert.Equal(t, http.StatusInternalServerError, GetErrorStatusCode(ErrInternalServer))

	// Anything unmapped falls through to a generic server error.
	assert.Equal(t, http.StatusInternalServerError, GetErrorStatusCode(errors.New("driver exploded")))
}
