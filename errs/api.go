package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("malformed request")
	ErrInternal     = errors.New("internal server error")
	ErrConflict     = errors.New("resource conflict")
	ErrCORSBlocked  = errors.New("request blocked by CORS policy")
)

// Domain-rule sentinels. NotFoundOrDenied deliberately merges "absent" and
// "not a member" so callers cannot probe for the existence of projects they
// have no access to.
var (
	ErrAccountDeactivated      = errors.New("account is deactivated")
	ErrNotFoundOrDenied        = errors.New("not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidAssignee         = errors.New("assignee is not a project member")
	ErrAlreadyMember           = errors.New("user is already a member")
	ErrCannotRemoveOwner       = errors.New("project owner cannot be removed")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrEmailTaken              = errors.New("email is already registered")
	ErrValidationFailed        = errors.New("validation failed")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message)}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: errors.New(message)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: errors.New(message)}
}

// Domain-rule constructors

func Unauthorized() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized}
}

func AccountDeactivated() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrAccountDeactivated}
}

// NotFoundOrDenied is returned whether the entity is absent or merely
// inaccessible to the caller; the two cases are indistinguishable on purpose.
func NotFoundOrDenied(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrNotFoundOrDenied,
		Details:    fmt.Sprintf("%s not found", entity),
	}
}

func InsufficientPermissions(action string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrInsufficientPermissions,
		Details:    fmt.Sprintf("not allowed to %s", action),
	}
}

func InvalidAssignee() *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrInvalidAssignee, Field: "assignee_id"}
}

func AlreadyMember() *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrAlreadyMember}
}

func CannotRemoveOwner() *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrCannotRemoveOwner}
}

func UserNotFound() *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrUserNotFound}
}

func InvalidCredentials() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrInvalidCredentials}
}

func EmailTaken() *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: ErrEmailTaken, Field: "email"}
}

func NewValidationError(field, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidationFailed,
		Field:      field,
		Details:    reason,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

// Type checkers

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFoundOrDenied(err error) bool {
	return errors.Is(err, ErrNotFoundOrDenied)
}

func IsInsufficientPermissions(err error) bool {
	return errors.Is(err, ErrInsufficientPermissions)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
