package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundOrDeniedIsUniform(t *testing.T) {
	absent := NotFoundOrDenied("project")
	denied := NotFoundOrDenied("project")

	assert.Equal(t, absent.Error(), denied.Error())
	assert.Equal(t, http.StatusNotFound, absent.StatusCode)
	assert.True(t, errors.Is(absent, ErrNotFoundOrDenied))
}

func TestApiErrUnwrapsSentinels(t *testing.T) {
	assert.True(t, errors.Is(CannotRemoveOwner(), ErrCannotRemoveOwner))
	assert.True(t, errors.Is(InvalidAssignee(), ErrInvalidAssignee))
	assert.True(t, errors.Is(AccountDeactivated(), ErrAccountDeactivated))
	assert.True(t, errors.Is(NewValidationError("name", "required"), ErrValidationFailed))

	var apiErr *ApiErr
	assert.True(t, errors.As(InsufficientPermissions("delete this project"), &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_users_email"`)))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}
