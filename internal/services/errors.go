package services

import (
	"errors"

	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/anonto42/nano-tube/backend/validators"
)

// Error taxonomy shared by every service. Callers match with errors.Is.
var (
	// ErrNotFound: unknown user, video, comment or channel
	ErrNotFound = repositories.ErrRecordNotFound
	// ErrValidation: missing or oversized input
	ErrValidation = validators.ErrInvalid
	// ErrConflict: the request contradicts current state
	ErrConflict = errors.New("conflict")
	// ErrStorage: a collection could not be persisted
	ErrStorage = repositories.ErrStorage
)
