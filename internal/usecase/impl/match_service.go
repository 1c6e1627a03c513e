package impl

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
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

const (
	exactMatchScore      = 100
	compatibleMatchScore = 50
	cityMatchScore       = 30
	regionMatchScore     = 20
)

// matchService implements the MatchUsecase interface.
type matchService struct {
	donorRepo repository.DonorRepository
	logger    *slog.Logger
	now       func() time.Time
}

// MatchServiceParams holds dependencies for MatchService, injected by Fx.
type MatchServiceParams struct {
	fx.In

	DonorRepo repository.DonorRepository
	Logger    *slog.Logger
}

// NewMatchService is the constructor for matchService.
func NewMatchService(params MatchServiceParams) usecase.MatchUsecase {
	return &matchService{
		donorRepo: params.DonorRepo,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *matchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// FindDonors ranks registry donors that can give blood to the requested group
// near the requested location.
func (srv *matchService) FindDonors(ctx context.Context, input *usecase.FindDonorsInput) (*usecase.MatchResult, error) {
	if strings.TrimSpace(input.BloodGroup) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("blood_group is required")
	}

	bloodType, ok := entity.ParseBloodType(input.BloodGroup)
	if !ok {
		return nil, domainerrors.ErrInvalidBloodType.WithDetails(input.BloodGroup)
	}

	urgency, ok := entity.ParseUrgency(input.Urgency)
	if !ok {
		return nil, domainerrors.ErrInvalidUrgency.WithDetails(input.Urgency)
	}

	donors, err := srv.donorRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list donors")
	}

	now := srv.now()
	compatible := entity.CompatibleDonorTypes(bloodType)
	queryParts := entity.LocationParts(input.Location)

	ranked := make([]usecase.RankedDonor, 0, len(donors))
	for _, donor := range donors {
		donor.Refresh(now)

		if !compatible.Contains(donor.BloodType) {
			continue
		}

		donorParts := entity.LocationParts(donor.Location)
		if !entity.LocationsOverlap(donorParts, queryParts) {
			continue
		}

		if !passesUrgencyPolicy(donor, urgency, now) {
			continue
		}

		ranked = append(ranked, usecase.RankedDonor{
			Donor:          donor,
			Score:          compatibilityScore(donor.BloodType, bloodType, donorParts, queryParts),
			UrgencyContext: urgencyContext(donor, urgency, now),
		})
	}

	slices.SortStableFunc(ranked, func(a, b usecase.RankedDonor) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(b.Donor.DonationCount, a.Donor.DonationCount)
	})

	total := len(ranked)
	if total > usecase.MaxRankedDonors {
		ranked = ranked[:usecase.MaxRankedDonors]
	}

	result := &usecase.MatchResult{
		BloodType:       bloodType,
		Location:        input.Location,
		Urgency:         urgency,
		SearchedAt:      now,
		CompatibleTypes: compatible,
		TotalFound:      total,
		Donors:          ranked,
		SearchTips:      searchTips(bloodType, urgency, total),
	}
	if urgency == entity.UrgencyEmergency {
		result.Emergency = emergencyAlternatives(entity.CompatibleDonorTypes(bloodType))
	}

	srv.log(ctx).Info("Donor search completed",
		slog.String("bloodType", bloodType.String()),
		slog.String("urgency", urgency.String()),
		slog.Int("donorsFound", total),
	)

	return result, nil
}

// passesUrgencyPolicy applies the availability rule of the urgency tier.
func passesUrgencyPolicy(donor *entity.Donor, urgency entity.Urgency, now time.Time) bool {
	switch urgency {
	case entity.UrgencyEmergency:
		return true
	case entity.UrgencyUrgent:
		if donor.OnHold {
			return false
		}
		if donor.IsAvailable(now) {
			return true
		}
		horizon := entity.DateOf(now).AddDate(0, 0, urgentWindowDays)

		return !donor.EligibleDate.After(horizon)
	default:
		return donor.IsAvailable(now)
	}
}

// compatibilityScore ranks exact groups above compatible ones and rewards
// matching city, then matching city and region.
func compatibilityScore(donorType, requested entity.BloodType, donorParts, queryParts []string) int {
	score := compatibleMatchScore
	if donorType == requested {
		score = exactMatchScore
	}

	if len(donorParts) == 0 || len(queryParts) == 0 || donorParts[0] != queryParts[0] {
		return score
	}
	score += cityMatchScore

	if len(donorParts) > 1 && len(queryParts) > 1 && donorParts[1] == queryParts[1] {
		score += regionMatchScore
	}

	return score
}
