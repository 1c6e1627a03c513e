package repository

import (
	"context"

	"thalassist/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for account persistence.
var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists is returned when the email is already taken.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// Create persists a new account. Emails are unique.
	Create(ctx context.Context, account *entity.Account) error

	// AttachDonor links an existing account to its donor registry entry.
	AttachDonor(ctx context.Context, id uuid.UUID, donorID string) error

	// Delete removes an account. Deleting an unknown account is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}
