/*
Package user 定义用户领域错误。
*/
package user

import (
	"fmt"

	"marketplace/domain/shared"
)

var (
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email format", shared.ErrInvalidInput)
	ErrInvalidName        = fmt.Errorf("%w: name cannot be empty", shared.ErrInvalidInput)
	ErrInvalidPayoutInfo  = fmt.Errorf("%w: invalid payout info", shared.ErrInvalidInput)
	ErrMissingBankAccount = fmt.Errorf("%w: artisan has no bank account on file", shared.ErrInvalidInput)
	ErrUserNotActive      = fmt.Errorf("%w: user is not active", shared.ErrForbidden)
	ErrNotArtisan         = fmt.Errorf("%w: user is not an artisan", shared.ErrForbidden)
	ErrUserAlreadyExists  = fmt.Errorf("%w: user already registered", shared.ErrConflict)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already exists", shared.ErrConflict)
	ErrUserNotFound       = fmt.Errorf("user %w", shared.ErrNotFound)
)

func NewUserNotFoundError(userID string) error {
	return &userDomainError{
		sentinel: ErrUserNotFound,
		entity:   "user",
		message:  "user not found: " + userID,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		entity:   "user",
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidNameError() error {
	return &userDomainError{
		sentinel: ErrInvalidName,
		entity:   "user",
		field:    "name",
		message:  "name cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidPayoutInfoError(field, reason string) error {
	return &userDomainError{
		sentinel: ErrInvalidPayoutInfo,
		entity:   "user",
		field:    field,
		message:  reason,
		stack:    shared.CaptureStack(3),
	}
}

func NewMissingBankAccountError(userID string) error {
	return &userDomainError{
		sentinel: ErrMissingBankAccount,
		entity:   "user",
		field:    "artisanId",
		message:  fmt.Sprintf("artisan %s has no bank account on file", userID),
		stack:    shared.CaptureStack(3),
	}
}

func NewUserNotActiveError(userID string) error {
	return &userDomainError{
		sentinel: ErrUserNotActive,
		entity:   "user",
		message:  "user " + userID + " is not active",
		stack:    shared.CaptureStack(3),
	}
}

func NewNotArtisanError(userID string) error {
	return &userDomainError{
		sentinel: ErrNotArtisan,
		entity:   "user",
		message:  "user " + userID + " is not an artisan",
		stack:    shared.CaptureStack(3),
	}
}

func NewUserAlreadyExistsError(userID string) error {
	return &userDomainError{
		sentinel: ErrUserAlreadyExists,
		entity:   "user",
		message:  "user already registered: " + userID,
		stack:    shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinel: ErrEmailAlreadyExists,
		entity:   "user",
		field:    "email",
		message:  "email already exists: " + email,
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() error   { return e.sentinel }
func (e *userDomainError) Field() string   { return e.field }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
