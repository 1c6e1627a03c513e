// Package memory holds the in-process stores for the donor registry, the
// donation request ledger and, when no database is configured, accounts.
package memory

import (
	"context"
	"fmt"
	"sync"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"
)

// donorRepository keeps donors in registration order behind a reader-writer lock.
// Stored donors are never handed out; every read returns a clone.
type donorRepository struct {
	mu     sync.RWMutex
	donors []*entity.Donor
	byID   map[string]int
	seq    int
}

// NewDonorRepository creates an empty donor registry.
func NewDonorRepository() repository.DonorRepository {
	return &donorRepository{byID: make(map[string]int)}
}

// Create assigns the next sequential id and appends the donor.
func (repo *donorRepository) Create(_ context.Context, donor *entity.Donor) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.seq++
	donor.ID = fmt.Sprintf("D%03d", repo.seq)
	repo.byID[donor.ID] = len(repo.donors)
	repo.donors = append(repo.donors, donor.Clone())

	return nil
}

// FindByID retrieves a snapshot of a single donor.
func (repo *donorRepository) FindByID(_ context.Context, id string) (*entity.Donor, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	idx, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrDonorNotFound
	}

	return repo.donors[idx].Clone(), nil
}

// List returns snapshots of every donor in registration order.
func (repo *donorRepository) List(_ context.Context) ([]*entity.Donor, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.Donor, len(repo.donors))
	for i, donor := range repo.donors {
		out[i] = donor.Clone()
	}

	return out, nil
}

// Update applies fn to a clone and swaps it in only when fn succeeds.
func (repo *donorRepository) Update(_ context.Context, id string, fn repository.DonorMutation) (*entity.Donor, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	idx, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrDonorNotFound
	}

	next := repo.donors[idx].Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	repo.donors[idx] = next

	return next.Clone(), nil
}

// Delete removes a donor and reindexes the ones after it.
func (repo *donorRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	idx, ok := repo.byID[id]
	if !ok {
		return repository.ErrDonorNotFound
	}

	repo.donors = append(repo.donors[:idx], repo.donors[idx+1:]...)
	delete(repo.byID, id)
	for i := idx; i < len(repo.donors); i++ {
		repo.byID[repo.donors[i].ID] = i
	}

	return nil
}

// Count returns the number of registered donors.
func (repo *donorRepository) Count(_ context.Context) (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return len(repo.donors), nil
}
