package memory

import (
	"context"
	"testing"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	account := &entity.Account{ID: uuid.New(), Email: "meera@example.com", Role: entity.RolePatient}
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByEmail(ctx, "MEERA@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	found, err = repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", found.Email)

	err = repo.Create(ctx, &entity.Account{ID: uuid.New(), Email: "Meera@Example.com"})
	assert.ErrorIs(t, err, repository.ErrAccountAlreadyExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_AttachDonorAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	account := &entity.Account{ID: uuid.New(), Email: "arjun@example.com", Role: entity.RoleDonor}
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, repo.AttachDonor(ctx, account.ID, "D004"))
	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "D004", found.DonorID)
	assert.ErrorIs(t, repo.AttachDonor(ctx, uuid.New(), "D005"), repository.ErrAccountNotFound)

	require.NoError(t, repo.Delete(ctx, account.ID))
	require.NoError(t, repo.Delete(ctx, account.ID))
	_, err = repo.FindByEmail(ctx, "arjun@example.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	// The email is free again.
	require.NoError(t, repo.Create(ctx, &entity.Account{ID: uuid.New(), Email: "arjun@example.com"}))
}
