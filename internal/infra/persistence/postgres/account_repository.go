// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new account.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAccountAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "create account")
	}

	return nil
}

// AttachDonor stores the donor id on the account row.
func (repo *accountRepository) AttachDonor(ctx context.Context, id uuid.UUID, donorID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		Update("donor_id", donorID)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "attach donor to account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Delete removes the account row.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "delete account")
	}

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by email")
	}

	return toAccountDomain(&accountM), nil
}

func fromAccountDomain(account *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:               account.ID,
		Email:            strings.ToLower(account.Email),
		PasswordHash:     account.PasswordHash,
		Name:             account.Name,
		Phone:            account.Phone,
		Role:             string(account.Role),
		BloodType:        account.BloodType.String(),
		City:             account.City,
		DateOfBirth:      account.DateOfBirth,
		MedicalHistory:   account.MedicalHistory,
		EmergencyContact: account.EmergencyContact,
		Weight:           account.Weight,
		DonorID:          account.DonorID,
		IsActive:         account.IsActive,
		IsVerified:       account.IsVerified,
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
	}
}

func toAccountDomain(accountM *model.AccountModel) *entity.Account {
	return &entity.Account{
		ID:               accountM.ID,
		Email:            accountM.Email,
		PasswordHash:     accountM.PasswordHash,
		Name:             accountM.Name,
		Phone:            accountM.Phone,
		Role:             entity.Role(accountM.Role),
		BloodType:        entity.BloodType(accountM.BloodType),
		City:             accountM.City,
		DateOfBirth:      accountM.DateOfBirth,
		MedicalHistory:   accountM.MedicalHistory,
		EmergencyContact: accountM.EmergencyContact,
		Weight:           accountM.Weight,
		DonorID:          accountM.DonorID,
		IsActive:         accountM.IsActive,
		IsVerified:       accountM.IsVerified,
		CreatedAt:        accountM.CreatedAt,
		UpdatedAt:        accountM.UpdatedAt,
	}
}
