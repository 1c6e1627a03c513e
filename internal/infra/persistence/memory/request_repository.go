package memory

import (
	"context"
	"fmt"
	"sync"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"
)

// requestRepository is the append-only donation request ledger.
type requestRepository struct {
	mu       sync.RWMutex
	requests []*entity.DonationRequest
	byID     map[string]int
}

// NewRequestRepository creates an empty ledger.
func NewRequestRepository() repository.RequestRepository {
	return &requestRepository{byID: make(map[string]int)}
}

// Create assigns the next sequential id and appends the request.
func (repo *requestRepository) Create(_ context.Context, request *entity.DonationRequest) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	request.ID = fmt.Sprintf("R%03d", len(repo.requests)+1)
	repo.byID[request.ID] = len(repo.requests)
	repo.requests = append(repo.requests, request.Clone())

	return nil
}

// FindByID retrieves a snapshot of a single request.
func (repo *requestRepository) FindByID(_ context.Context, id string) (*entity.DonationRequest, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	idx, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}

	return repo.requests[idx].Clone(), nil
}

// List returns snapshots of every request in creation order.
func (repo *requestRepository) List(_ context.Context) ([]*entity.DonationRequest, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.DonationRequest, len(repo.requests))
	for i, request := range repo.requests {
		out[i] = request.Clone()
	}

	return out, nil
}

// Update applies fn to a clone and swaps it in only when fn succeeds.
func (repo *requestRepository) Update(_ context.Context, id string, fn repository.RequestMutation) (*entity.DonationRequest, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	idx, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}

	next := repo.requests[idx].Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	repo.requests[idx] = next

	return next.Clone(), nil
}
