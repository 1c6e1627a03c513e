package metrics

import (
	"context"

	"thalassist/internal/domain/entity"
	"thalassist/internal/usecase"
)

type instrumentedDonors struct {
	usecase.DonorUsecase
	metrics *Metrics
}

// InstrumentDonors counts successful registrations and recorded donations at
// the registry itself, so every caller that adds a donor is observed.
func InstrumentDonors(next usecase.DonorUsecase, m *Metrics) usecase.DonorUsecase {
	return &instrumentedDonors{DonorUsecase: next, metrics: m}
}

func (d *instrumentedDonors) RegisterDonor(ctx context.Context, input *usecase.RegisterDonorInput) (*usecase.RegisterDonorOutput, error) {
	output, err := d.DonorUsecase.RegisterDonor(ctx, input)
	if err == nil {
		d.metrics.DonorsRegistered.Inc()
	}

	return output, err
}

func (d *instrumentedDonors) RecordDonation(ctx context.Context, input *usecase.RecordDonationInput) (*entity.Donor, error) {
	donor, err := d.DonorUsecase.RecordDonation(ctx, input)
	if err == nil {
		d.metrics.DonationsRecorded.Inc()
	}

	return donor, err
}
