package repository

import (
	"context"

	"thalassist/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrRequestNotFound is returned when a donation request is not found.
var ErrRequestNotFound = errors.New("donation request not found")

// RequestMutation changes a private copy of a request. Returning an error discards the copy.
type RequestMutation func(request *entity.DonationRequest) error

// RequestRepository is the append-only donation request ledger.
type RequestRepository interface {
	// Create assigns the next sequential id ("R001", ...) and appends the request.
	Create(ctx context.Context, request *entity.DonationRequest) error

	// FindByID retrieves a snapshot of a single request.
	FindByID(ctx context.Context, id string) (*entity.DonationRequest, error)

	// List returns snapshots of every request in creation order.
	List(ctx context.Context) ([]*entity.DonationRequest, error)

	// Update applies fn to a copy of the request and publishes the copy atomically.
	Update(ctx context.Context, id string, fn RequestMutation) (*entity.DonationRequest, error)
}
