package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorPassesTypedErrorsThrough(t *testing.T) {
	wrapped := fmt.Errorf("gate: %w", ErrTokenRevoked)

	appErr := FromError(wrapped)
	assert.Equal(t, "TOKEN_REVOKED", appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
	assert.Nil(t, FromError(nil))
}

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrForbidden, "only book owner is allowed to perform this")
	assert.Equal(t, "only book owner is allowed to perform this", clone.Message)
	assert.Equal(t, "you are not authorized", ErrForbidden.Message)
	assert.True(t, errors.Is(clone, ErrForbidden))
	assert.False(t, errors.Is(clone, ErrTokenRevoked))
}

func TestExpiredErrorsShareCodeButNotStatus(t *testing.T) {
	assert.Equal(t, ErrTokenExpired.Code, ErrRefreshExpired.Code)
	assert.False(t, errors.Is(ErrRefreshExpired, ErrTokenExpired))
}
