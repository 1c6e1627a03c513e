// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterDonorInput defines the data required to register a new donor.
// BloodGroup is free text and is normalized by the usecase.
type RegisterDonorInput struct {
	Name              string
	BloodGroup        string
	Location          string
	Phone             string
	Email             string
	Age               *int
	Weight            *float64
	LastDonation      *time.Time
	MedicalConditions string
}

// RecordDonationInput identifies a completed donation.
type RecordDonationInput struct {
	DonorID string
	Date    time.Time
}

// SetAvailabilityInput places or releases an external hold on a donor.
type SetAvailabilityInput struct {
	DonorID   string
	Available bool
}

// --- Output DTOs ---

// RegisterDonorOutput returns the stored donor and follow-up guidance.
type RegisterDonorOutput struct {
	Donor     *entity.Donor
	NextSteps []string
}

// DonorUsecase defines the donor registry operations.
type DonorUsecase interface {
	RegisterDonor(ctx context.Context, input *RegisterDonorInput) (*RegisterDonorOutput, error)
	RecordDonation(ctx context.Context, input *RecordDonationInput) (*entity.Donor, error)
	GetDonor(ctx context.Context, donorID string) (*entity.Donor, error)
	ListDonors(ctx context.Context) ([]*entity.Donor, error)
	VerifyDonor(ctx context.Context, donorID string) (*entity.Donor, error)
	SetAvailability(ctx context.Context, input *SetAvailabilityInput) (*entity.Donor, error)
	// WithdrawDonor removes a registry entry, e.g. when the signup that created it fails.
	WithdrawDonor(ctx context.Context, donorID string) error
}
