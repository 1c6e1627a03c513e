package memory

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/repository"

	"github.com/pkg/errors"
)

type sampleDonor struct {
	name          string
	bloodType     entity.BloodType
	location      string
	phone         string
	email         string
	lastDonation  time.Time
	onHold        bool
	donationCount int
}

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleDonors are the demo registry entries, created in order so they receive
// the ids D001 to D005.
var sampleDonors = []sampleDonor{
	{"Rajesh Kumar", entity.BloodTypeOPos, "Chennai, Tamil Nadu", "+91-9876543210", "rajesh.k@example.com", civilDate(2024, time.January, 15), false, 5},
	{"Priya Sharma", entity.BloodTypeAPos, "Bangalore, Karnataka", "+91-9876543211", "priya.s@example.com", civilDate(2023, time.December, 20), false, 3},
	{"Mohammed Ali", entity.BloodTypeBNeg, "Hyderabad, Andhra Pradesh", "+91-9876543212", "ali.m@example.com", civilDate(2024, time.February, 1), true, 8},
	{"Anita Reddy", entity.BloodTypeABPos, "Chennai, Tamil Nadu", "+91-9876543213", "anita.r@example.com", civilDate(2023, time.November, 10), false, 2},
	{"Vikram Singh", entity.BloodTypeONeg, "Mumbai, Maharashtra", "+91-9876543214", "vikram.s@example.com", civilDate(2024, time.January, 5), false, 12},
}

// SeedSampleDonors loads the demo donors into an empty registry. A registry that
// already holds donors is left untouched.
func SeedSampleDonors(ctx context.Context, repo repository.DonorRepository, now time.Time) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count donors")
	}
	if count > 0 {
		return 0, nil
	}

	for _, sample := range sampleDonors {
		lastDonation := sample.lastDonation
		donor := &entity.Donor{
			Name:          sample.name,
			BloodType:     sample.bloodType,
			Location:      sample.location,
			Phone:         sample.phone,
			Email:         sample.email,
			LastDonation:  &lastDonation,
			OnHold:        sample.onHold,
			Verified:      true,
			DonationCount: sample.donationCount,
			RegisteredAt:  now,
			UpdatedAt:     now,
		}
		donor.Refresh(now)

		if err := repo.Create(ctx, donor); err != nil {
			return 0, errors.Wrapf(err, "failed to seed donor %s", sample.name)
		}
	}

	return len(sampleDonors), nil
}
