package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"
	"thalassist/internal/domain/service"
	"thalassist/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerTokenType = "bearer"

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo    repository.AccountRepository
	donors         usecase.DonorUsecase
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	revocationList repository.TokenRevocationList
	logger         *slog.Logger
	now            func() time.Time
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo    repository.AccountRepository
	Donors         usecase.DonorUsecase
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	RevocationList repository.TokenRevocationList
	Logger         *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:    params.AccountRepo,
		donors:         params.Donors,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		revocationList: params.RevocationList,
		logger:         params.Logger,
		now:            time.Now,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// Register creates an account and, for donors, the matching registry entry.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterAccountInput) (*usecase.AuthOutput, error) {
	if missing := missingFields(map[string]string{
		"email":       input.Email,
		"password":    input.Password,
		"name":        input.Name,
		"phone":       input.Phone,
		"user_type":   input.UserType,
		"blood_group": input.BloodGroup,
		"city":        input.City,
	}, "email", "password", "name", "phone", "user_type", "blood_group", "city"); len(missing) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing required fields: " + strings.Join(missing, ", "))
	}

	role, ok := entity.ParseRole(input.UserType)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("user_type must be donor or patient")
	}

	bloodType, valid := entity.ParseBloodType(input.BloodGroup)
	if !valid {
		return nil, domainerrors.ErrInvalidBloodType.WithDetails(input.BloodGroup)
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	_, err := srv.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrAccountAlreadyExists
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, errors.Wrap(err, "failed to check existing account")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	account := &entity.Account{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		Role:             role,
		BloodType:        bloodType,
		City:             strings.TrimSpace(input.City),
		DateOfBirth:      input.DateOfBirth,
		MedicalHistory:   input.MedicalHistory,
		EmergencyContact: input.EmergencyContact,
		Weight:           input.Weight,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The account row reserves the email before any registry entry exists.
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountAlreadyExists) {
			return nil, domainerrors.ErrAccountAlreadyExists
		}
		srv.log(ctx).Error("Failed to create account", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create account")
	}

	if role == entity.RoleDonor {
		if err := srv.attachNewDonor(ctx, account, input.LastDonation); err != nil {
			srv.rollbackAccount(ctx, account.ID)

			return nil, err
		}
	}

	srv.log(ctx).Info("Account registered",
		slog.Any("accountID", account.ID),
		slog.String("role", role.String()),
		slog.String("donorID", account.DonorID),
	)

	return srv.issueTokens(account)
}

// attachNewDonor registers the account holder as a donor and links the entry.
// A donor that cannot be linked is withdrawn again.
func (srv *accountService) attachNewDonor(ctx context.Context, account *entity.Account, lastDonation *time.Time) error {
	donorID, err := srv.registerDonor(ctx, account, lastDonation)
	if err != nil {
		return err
	}

	if err := srv.accountRepo.AttachDonor(ctx, account.ID, donorID); err != nil {
		if withdrawErr := srv.donors.WithdrawDonor(ctx, donorID); withdrawErr != nil {
			srv.log(ctx).Error("Failed to withdraw unlinked donor",
				slog.String("donorID", donorID),
				slog.Any("error", withdrawErr),
			)
		}

		return errors.Wrap(err, "failed to link donor to account")
	}
	account.DonorID = donorID

	return nil
}

func (srv *accountService) rollbackAccount(ctx context.Context, id uuid.UUID) {
	if err := srv.accountRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to roll back account", slog.Any("accountID", id), slog.Any("error", err))
	}
}

func (srv *accountService) registerDonor(ctx context.Context, account *entity.Account, lastDonation *time.Time) (string, error) {
	var weight *float64
	if account.Weight != nil {
		w := float64(*account.Weight)
		weight = &w
	}

	out, err := srv.donors.RegisterDonor(ctx, &usecase.RegisterDonorInput{
		Name:         account.Name,
		BloodGroup:   account.BloodType.String(),
		Location:     account.City,
		Phone:        account.Phone,
		Email:        account.Email,
		Weight:       weight,
		LastDonation: lastDonation,
	})
	if err != nil {
		return "", err
	}

	return out.Donor.ID, nil
}

// Login authenticates an account by email and password.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	account, err := srv.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login rejected", slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, domainerrors.ErrForbidden.WithDetails("account is disabled")
	}

	srv.log(ctx).Info("Account logged in", slog.Any("accountID", account.ID))

	return srv.issueTokens(account)
}

// Refresh rotates a refresh token: the presented token is revoked and a new pair issued.
func (srv *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid
	}

	account, err := srv.accountRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	// Only the caller that revokes the presented token may rotate it.
	claimed, err := srv.revocationList.RevokeOnce(ctx, claims.ID, claims.RemainingTTL(srv.now()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to revoke refresh token")
	}
	if !claimed {
		return nil, domainerrors.ErrTokenRevoked
	}

	return srv.issueTokens(account)
}

// GetProfile returns the account behind an authenticated request.
func (srv *accountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to get account")
	}

	return account, nil
}

// Logout revokes the access token and, when given, the refresh token of the same account.
func (srv *accountService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	now := srv.now()
	access := input.AccessClaims

	if err := srv.revocationList.Revoke(ctx, access.ID, access.RemainingTTL(now)); err != nil {
		return errors.Wrap(err, "failed to revoke access token")
	}

	if input.RefreshToken != "" {
		refresh, err := srv.tokenService.ValidateToken(input.RefreshToken, service.TokenTypeRefresh)
		if err != nil {
			return domainerrors.ErrTokenInvalid
		}
		if refresh.UserID != access.UserID {
			return domainerrors.ErrForbidden.WithDetails("refresh token belongs to another account")
		}
		if err := srv.revocationList.Revoke(ctx, refresh.ID, refresh.RemainingTTL(now)); err != nil {
			return errors.Wrap(err, "failed to revoke refresh token")
		}
	}

	srv.log(ctx).Info("Account logged out", slog.Any("accountID", access.UserID))

	return nil
}

func (srv *accountService) issueTokens(account *entity.Account) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(account.ID, account.TokenRoles())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    bearerTokenType,
		ExpiresIn:    srv.tokenService.GetAccessTokenDuration(),
		Account:      account,
	}, nil
}
