package usecase

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
)

// RequestFilterAll lists requests in any status.
const RequestFilterAll = "all"

// CreateRequestInput defines the data required to open a donation request.
// UnitsNeeded nil means one unit; ComponentType empty means whole blood.
type CreateRequestInput struct {
	PatientName    string
	BloodGroup     string
	Location       string
	Urgency        string
	Hospital       string
	ContactPerson  string
	ContactPhone   string
	UnitsNeeded    *int
	ComponentType  string
	NeededBy       *time.Time
	AdditionalInfo string
}

// CreateRequestOutput returns the ledger entry and follow-up guidance.
type CreateRequestOutput struct {
	Request         *entity.DonationRequest
	PotentialDonors int
	NextSteps       []string
}

// RespondToRequestInput records a donor answering a request.
type RespondToRequestInput struct {
	RequestID string
	DonorID   string
}

// RequestUsecase defines the donation request ledger operations.
type RequestUsecase interface {
	CreateRequest(ctx context.Context, input *CreateRequestInput) (*CreateRequestOutput, error)
	GetRequest(ctx context.Context, requestID string) (*entity.DonationRequest, error)
	// ListRequests filters by "active" (default when empty), "closed" or "all".
	ListRequests(ctx context.Context, status string) ([]*entity.DonationRequest, error)
	RespondToRequest(ctx context.Context, input *RespondToRequestInput) (*entity.DonationRequest, error)
	CloseRequest(ctx context.Context, requestID string) (*entity.DonationRequest, error)
}
