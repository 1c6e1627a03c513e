package usecase

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
)

// DonorStats is a read-only aggregate over the registry.
type DonorStats struct {
	TotalDonors     int
	AvailableDonors int
	VerifiedDonors  int
	BloodTypeCounts map[entity.BloodType]int
	Locations       []string // Distinct, sorted.
	LocationFilter  string
	GeneratedAt     time.Time
}

// StatisticsUsecase aggregates registry figures.
type StatisticsUsecase interface {
	// Summarize counts donors whose location contains locationFilter
	// case-insensitively. An empty filter selects every donor.
	Summarize(ctx context.Context, locationFilter string) (*DonorStats, error)
}
