package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"
	"thalassist/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// statisticsService implements the StatisticsUsecase interface.
type statisticsService struct {
	donorRepo repository.DonorRepository
	logger    *slog.Logger
	now       func() time.Time
}

// StatisticsServiceParams holds dependencies for StatisticsService, injected by Fx.
type StatisticsServiceParams struct {
	fx.In

	DonorRepo repository.DonorRepository
	Logger    *slog.Logger
}

// NewStatisticsService is the constructor for statisticsService.
func NewStatisticsService(params StatisticsServiceParams) usecase.StatisticsUsecase {
	return &statisticsService{
		donorRepo: params.DonorRepo,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (srv *statisticsService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// Summarize aggregates the registry, optionally restricted to locations
// containing locationFilter.
func (srv *statisticsService) Summarize(ctx context.Context, locationFilter string) (*usecase.DonorStats, error) {
	donors, err := srv.donorRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list donors")
	}

	now := srv.now()
	filter := strings.ToLower(strings.TrimSpace(locationFilter))

	stats := &usecase.DonorStats{
		BloodTypeCounts: make(map[entity.BloodType]int),
		Locations:       []string{},
		LocationFilter:  locationFilter,
		GeneratedAt:     now,
	}

	seen := make(map[string]struct{})
	for _, donor := range donors {
		if filter != "" && !strings.Contains(strings.ToLower(donor.Location), filter) {
			continue
		}

		stats.TotalDonors++
		if donor.IsAvailable(now) {
			stats.AvailableDonors++
		}
		if donor.Verified {
			stats.VerifiedDonors++
		}
		stats.BloodTypeCounts[donor.BloodType]++

		if _, ok := seen[donor.Location]; !ok {
			seen[donor.Location] = struct{}{}
			stats.Locations = append(stats.Locations, donor.Location)
		}
	}
	slices.Sort(stats.Locations)

	srv.log(ctx).Debug("Donor statistics generated",
		slog.String("locationFilter", locationFilter),
		slog.Int("totalDonors", stats.TotalDonors),
	)

	return stats, nil
}
