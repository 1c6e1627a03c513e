package memory

import (
	"context"
	"strings"
	"sync"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"

	"github.com/google/uuid"
)

// accountRepository stores accounts when no database is configured.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]entity.Account
	byEmail  map[string]uuid.UUID
}

// NewAccountRepository creates an empty account store.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		accounts: make(map[uuid.UUID]entity.Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

// Create persists a new account; the email must not be taken.
func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := repo.byEmail[email]; exists {
		return repository.ErrAccountAlreadyExists
	}

	repo.accounts[account.ID] = *account
	repo.byEmail[email] = account.ID

	return nil
}

// AttachDonor links the account to its donor registry entry.
func (repo *accountRepository) AttachDonor(_ context.Context, id uuid.UUID, donorID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	account, ok := repo.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.DonorID = donorID
	repo.accounts[id] = account

	return nil
}

// Delete removes the account and frees its email.
func (repo *accountRepository) Delete(_ context.Context, id uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	account, ok := repo.accounts[id]
	if !ok {
		return nil
	}
	delete(repo.byEmail, strings.ToLower(account.Email))
	delete(repo.accounts, id)

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return &account, nil
}

// FindByEmail retrieves a single account by its email address, ignoring case.
func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	account := repo.accounts[id]

	return &account, nil
}
