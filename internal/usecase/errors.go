package usecase

import (
	"errors"

	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"
)

// Error kinds. Every error a service returns to a handler either wraps one of
// these or is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a client-facing failure with a stable message.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

var (
	ErrUsernameTaken      = newError(ErrConflict, "username already taken")
	ErrEmailTaken         = newError(ErrConflict, "email already registered")
	ErrDuplicateBid       = newError(ErrConflict, "you have already bid on this task")
	ErrBidAlreadyResolved = newError(ErrConflict, "bid has already been resolved")

	ErrAccountNotFound   = newError(ErrNotFound, "user not found")
	ErrTaskNotFound      = newError(ErrNotFound, "task not found")
	ErrBidNotFound       = newError(ErrNotFound, "bid not found")
	ErrMilestoneNotFound = newError(ErrNotFound, "milestone not found")

	ErrInvalidOTP        = newError(ErrValidation, "invalid or expired OTP")
	ErrAdminRole         = newError(ErrValidation, "ADMIN role cannot be self-assigned")

	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrUnverified         = newError(ErrUnauthorized, "account not verified, check your email for the OTP")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid or expired token")

	ErrNotTaskOwner = newError(ErrForbidden, "only the task owner can do this")
	ErrRoleRequired = newError(ErrForbidden, "your role is not allowed to do this")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validate runs struct validation and wraps failures in a ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
