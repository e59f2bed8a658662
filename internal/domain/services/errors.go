package services

import (
	"errors"
	"fmt"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
)

// Errors returned by every service. Controllers map them to error codes.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record conflicts with an existing one")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserInactive        = errors.New("account is inactive")
	ErrSessionInvalid      = errors.New("session is invalid or expired")
	ErrSelfDelete          = errors.New("cannot delete the signed-in account")
	ErrHouseholdHasMembers = errors.New("household still has members")
	ErrArchiveFailed       = errors.New("blotter archive failed")
	ErrStorage             = errors.New("blob storage failed")

	// ErrRoleTaken is a conflict: the household already has a family head
	// or a wife.
	ErrRoleTaken = fmt.Errorf("%w: household role already taken", ErrConflict)
)

// ValidationError carries the per-field problems of a rejected write.
type ValidationError struct {
	Fields rules.ValidationErrors
}

func (e *ValidationError) Error() string { return e.Fields.Error() }

// Is lets callers test with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// invalid wraps v, or returns nil when v is empty.
func invalid(v rules.ValidationErrors) error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// invalidField is invalid for a single field.
func invalidField(field, message string) error {
	return &ValidationError{Fields: rules.ValidationErrors{field: message}}
}

// Actor identifies who performs a write, for the activity log.
type Actor struct {
	UserID uint
	IP     string
}

// SystemActor is used by the CLI and background jobs.
var SystemActor = Actor{IP: "system"}
