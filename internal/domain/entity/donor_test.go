package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDonor_Refresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	t.Run("never donated is available from registration", func(t *testing.T) {
		t.Parallel()

		d := &Donor{}
		d.Refresh(now)
		assert.Equal(t, date(2024, time.March, 10), d.EligibleDate)
		assert.Equal(t, DonorStatusAvailable, d.Status)
	})

	t.Run("recent donation is not available", func(t *testing.T) {
		t.Parallel()

		last := date(2024, time.February, 1)
		d := &Donor{LastDonation: &last}
		d.Refresh(now)
		assert.Equal(t, date(2024, time.May, 1), d.EligibleDate)
		assert.Equal(t, DonorStatusNotAvailable, d.Status)
		assert.Equal(t, 52, d.DaysUntilEligible(now))
	})

	t.Run("eligible exactly on the cooldown boundary", func(t *testing.T) {
		t.Parallel()

		last := now.AddDate(0, 0, -DonationCooldownDays)
		d := &Donor{LastDonation: &last}
		d.Refresh(now)
		assert.Equal(t, DonorStatusAvailable, d.Status)
		assert.Equal(t, 0, d.DaysUntilEligible(now))
	})

	t.Run("hold overrides eligibility", func(t *testing.T) {
		t.Parallel()

		d := &Donor{OnHold: true}
		d.Refresh(now)
		assert.Equal(t, DonorStatusNotAvailable, d.Status)
		assert.False(t, d.IsAvailable(now))
	})
}

func TestDonor_Clone(t *testing.T) {
	t.Parallel()

	age := 30
	last := date(2024, time.January, 1)
	original := &Donor{ID: "D001", Age: &age, LastDonation: &last}

	clone := original.Clone()
	require.NotSame(t, original, clone)
	*clone.Age = 40
	*clone.LastDonation = date(2020, time.January, 1)

	assert.Equal(t, 30, *original.Age)
	assert.Equal(t, date(2024, time.January, 1), *original.LastDonation)
	assert.Nil(t, (*Donor)(nil).Clone())
}
