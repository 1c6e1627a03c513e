package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.Account{
		ID:        uuid.New(),
		Email:     "Priya@Example.com",
		Name:      "Priya Sharma",
		Role:      entity.RoleDonor,
		BloodType: entity.BloodTypeAPos,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_accounts_email" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &entity.Account{ID: uuid.New(), Email: "taken@example.com"})
	assert.ErrorIs(t, err, repository.ErrAccountAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "blood_type", "donor_id", "is_active"}).
		AddRow(id.String(), "priya@example.com", "Priya Sharma", "donor", "A+", "D002", true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE email = $1`)).
		WillReturnRows(rows)

	account, err := repo.FindByEmail(context.Background(), "PRIYA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, entity.RoleDonor, account.Role)
	assert.Equal(t, entity.BloodTypeAPos, account.BloodType)
	assert.Equal(t, "D002", account.DonorID)
	assert.True(t, account.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByIDQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE id = $1`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrAccountNotFound)
	assert.Contains(t, err.Error(), "connection reset")

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.Equal(t, "find account by id", appErr.Details())
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(errors.New("SQLSTATE 23505")))
	assert.False(t, isUniqueConstraintViolation(errors.New("SQLSTATE 23502")))
}

func TestAccountRepository_AttachDonor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "donor_id"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AttachDonor(context.Background(), uuid.New(), "D007"))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "donor_id"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.AttachDonor(context.Background(), uuid.New(), "D008")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), uuid.New()))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts" WHERE id = $1`)).
		WillReturnError(errors.New("connection reset"))
	err := repo.Delete(context.Background(), uuid.New())

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "delete account", appErr.Details())
	assert.NoError(t, mock.ExpectationsWereMet())
}
