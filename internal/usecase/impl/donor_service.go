// Package impl contains the implementation of the application's business logic.
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
	"thalassist/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var registrationNextSteps = []string{
	"Verification process will be initiated",
	"You will receive confirmation via phone/email",
	"Keep your health records updated",
}

// donorService implements the DonorUsecase interface.
type donorService struct {
	donorRepo repository.DonorRepository
	logger    *slog.Logger
	now       func() time.Time
}

// DonorServiceParams holds dependencies for DonorService, injected by Fx.
type DonorServiceParams struct {
	fx.In

	DonorRepo repository.DonorRepository
	Logger    *slog.Logger
}

// NewDonorService is the constructor for donorService.
func NewDonorService(params DonorServiceParams) usecase.DonorUsecase {
	return &donorService{
		donorRepo: params.DonorRepo,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *donorService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// RegisterDonor validates the input, normalizes the blood group and appends the donor to the registry.
func (srv *donorService) RegisterDonor(ctx context.Context, input *usecase.RegisterDonorInput) (*usecase.RegisterDonorOutput, error) {
	now := srv.now()

	if missing := missingFields(map[string]string{
		"name":        input.Name,
		"blood_group": input.BloodGroup,
		"location":    input.Location,
		"phone":       input.Phone,
	}, "name", "blood_group", "location", "phone"); len(missing) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing required fields: " + strings.Join(missing, ", "))
	}

	bloodType, ok := entity.ParseBloodType(input.BloodGroup)
	if !ok {
		return nil, domainerrors.ErrInvalidBloodType.WithDetails(input.BloodGroup)
	}

	var lastDonation *time.Time
	if input.LastDonation != nil {
		date := entity.DateOf(*input.LastDonation)
		if date.After(entity.DateOf(now)) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("last_donation cannot be in the future")
		}
		lastDonation = &date
	}

	if input.Age != nil && *input.Age <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("age must be positive")
	}
	if input.Weight != nil && *input.Weight <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("weight must be positive")
	}

	donor := &entity.Donor{
		Name:              strings.TrimSpace(input.Name),
		BloodType:         bloodType,
		Location:          strings.TrimSpace(input.Location),
		Phone:             strings.TrimSpace(input.Phone),
		Email:             strings.TrimSpace(input.Email),
		Age:               input.Age,
		Weight:            input.Weight,
		MedicalConditions: strings.TrimSpace(input.MedicalConditions),
		LastDonation:      lastDonation,
		RegisteredAt:      now,
		UpdatedAt:         now,
	}
	donor.Refresh(now)

	if err := srv.donorRepo.Create(ctx, donor); err != nil {
		srv.log(ctx).Error("Failed to register donor", slog.String("bloodType", bloodType.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register donor")
	}

	srv.log(ctx).Info("Donor registered",
		slog.String("donorID", donor.ID),
		slog.String("bloodType", donor.BloodType.String()),
		slog.String("status", donor.Status.String()),
	)

	return &usecase.RegisterDonorOutput{
		Donor:     donor,
		NextSteps: append([]string(nil), registrationNextSteps...),
	}, nil
}

// RecordDonation stamps a completed donation and restarts the cooldown.
func (srv *donorService) RecordDonation(ctx context.Context, input *usecase.RecordDonationInput) (*entity.Donor, error) {
	now := srv.now()

	date := entity.DateOf(input.Date)
	if input.Date.IsZero() {
		date = entity.DateOf(now)
	}
	if date.After(entity.DateOf(now)) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("donation date cannot be in the future")
	}

	donor, err := srv.donorRepo.Update(ctx, input.DonorID, func(donor *entity.Donor) error {
		donor.LastDonation = &date
		donor.DonationCount++
		donor.UpdatedAt = now
		donor.Refresh(now)

		return nil
	})
	if err != nil {
		return nil, srv.translateDonorError(err, "failed to record donation")
	}

	srv.log(ctx).Info("Donation recorded",
		slog.String("donorID", donor.ID),
		slog.Int("donationCount", donor.DonationCount),
		slog.Time("eligibleDate", donor.EligibleDate),
	)

	return donor, nil
}

// GetDonor returns a single donor with its status derived as of now.
func (srv *donorService) GetDonor(ctx context.Context, donorID string) (*entity.Donor, error) {
	donor, err := srv.donorRepo.FindByID(ctx, donorID)
	if err != nil {
		return nil, srv.translateDonorError(err, "failed to get donor")
	}
	donor.Refresh(srv.now())

	return donor, nil
}

// ListDonors returns every donor in registration order.
func (srv *donorService) ListDonors(ctx context.Context) ([]*entity.Donor, error) {
	donors, err := srv.donorRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list donors")
	}

	now := srv.now()
	for _, donor := range donors {
		donor.Refresh(now)
	}

	return donors, nil
}

// VerifyDonor marks the donor as verified.
func (srv *donorService) VerifyDonor(ctx context.Context, donorID string) (*entity.Donor, error) {
	now := srv.now()

	donor, err := srv.donorRepo.Update(ctx, donorID, func(donor *entity.Donor) error {
		donor.Verified = true
		donor.UpdatedAt = now
		donor.Refresh(now)

		return nil
	})
	if err != nil {
		return nil, srv.translateDonorError(err, "failed to verify donor")
	}

	srv.log(ctx).Info("Donor verified", slog.String("donorID", donor.ID))

	return donor, nil
}

// SetAvailability places (available=false) or releases (available=true) an external hold.
func (srv *donorService) SetAvailability(ctx context.Context, input *usecase.SetAvailabilityInput) (*entity.Donor, error) {
	now := srv.now()

	donor, err := srv.donorRepo.Update(ctx, input.DonorID, func(donor *entity.Donor) error {
		donor.OnHold = !input.Available
		donor.UpdatedAt = now
		donor.Refresh(now)

		return nil
	})
	if err != nil {
		return nil, srv.translateDonorError(err, "failed to set donor availability")
	}

	srv.log(ctx).Info("Donor availability changed",
		slog.String("donorID", donor.ID),
		slog.Bool("onHold", donor.OnHold),
		slog.String("status", donor.Status.String()),
	)

	return donor, nil
}

// WithdrawDonor removes a donor from the registry.
func (srv *donorService) WithdrawDonor(ctx context.Context, donorID string) error {
	if err := srv.donorRepo.Delete(ctx, donorID); err != nil {
		return srv.translateDonorError(err, "failed to withdraw donor")
	}

	srv.log(ctx).Warn("Donor withdrawn", slog.String("donorID", donorID))

	return nil
}

func (srv *donorService) translateDonorError(err error, message string) error {
	if errors.Is(err, repository.ErrDonorNotFound) {
		return domainerrors.ErrDonorNotFound
	}

	return errors.Wrap(err, message)
}

// missingFields returns the names, in order, whose values are blank.
func missingFields(values map[string]string, order ...string) []string {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}

	return missing
}
