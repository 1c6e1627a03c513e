package usecase

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterAccountInput defines the data required to sign up.
type RegisterAccountInput struct {
	Email            string
	Password         string
	Name             string
	Phone            string
	UserType         string // donor or patient
	BloodGroup       string
	City             string
	DateOfBirth      *time.Time
	MedicalHistory   string
	EmergencyContact string
	Weight           *int
	LastDonation     *time.Time
}

// LoginInput defines the data required for an account holder to log in.
type LoginInput struct {
	Email    string
	Password string
}

// LogoutInput carries the tokens to revoke. RefreshToken is optional.
type LogoutInput struct {
	AccessClaims *service.Claims
	RefreshToken string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens and the account they belong to.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    time.Duration
	Account      *entity.Account
}

// AccountUsecase defines sign-up, login and session operations.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterAccountInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)
	Logout(ctx context.Context, input *LogoutInput) error
}
