package service

import (
	"errors"

	"github.com/nossamoto/backend/internal/validation"
)

var (
	// ErrInvalidRecord is returned when an admin-submitted record breaks a
	// field constraint. It is wrapped with the reason.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNameTaken is returned when a motorcycle name is already in the catalog.
	ErrNameTaken = errors.New("motorcycle name already exists")
	// ErrNoSubmissions is returned when there is nothing to export.
	ErrNoSubmissions = errors.New("no submissions")
	// ErrStaleBatch is returned when confirming a batch that expired or was
	// superseded by a newer extraction.
	ErrStaleBatch = errors.New("import batch is no longer pending")
	// ErrImportNotConfigured is returned when no extractor is available.
	ErrImportNotConfigured = errors.New("import not configured")
	// ErrInvalidCredentials is returned for a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the field errors of a rejected application along
// with the field that should receive focus.
type ValidationError struct {
	Fields         validation.FieldErrors
	Focus          string
	ExpandOptional bool
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Focus
}
