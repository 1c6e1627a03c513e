// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"thalassist/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrDonorNotFound is a domain-specific error returned when a donor is not found.
var ErrDonorNotFound = errors.New("donor not found")

// DonorMutation changes a private copy of a donor. Returning an error discards the copy.
type DonorMutation func(donor *entity.Donor) error

// DonorRepository is the donor registry store. Implementations are safe for
// concurrent use and never hand out pointers to their internal state.
type DonorRepository interface {
	// Create assigns the next sequential id ("D001", "D002", ...) and stores the donor.
	// The assigned id is written back to donor.ID.
	Create(ctx context.Context, donor *entity.Donor) error

	// FindByID retrieves a snapshot of a single donor.
	FindByID(ctx context.Context, id string) (*entity.Donor, error)

	// List returns snapshots of every donor in registration order.
	List(ctx context.Context) ([]*entity.Donor, error)

	// Update applies fn to a copy of the donor and publishes the copy atomically.
	Update(ctx context.Context, id string, fn DonorMutation) (*entity.Donor, error)

	// Delete removes a donor. Ids are never reused.
	Delete(ctx context.Context, id string) error

	// Count returns the number of registered donors.
	Count(ctx context.Context) (int, error)
}
