package entity

import (
	"time"
)

// DonationCooldownDays is the minimum gap between two whole-blood donations.
const DonationCooldownDays = 90

// DonorStatus is the derived availability of a donor.
type DonorStatus string

const (
	DonorStatusAvailable    DonorStatus = "available"
	DonorStatusNotAvailable DonorStatus = "not_available"
)

// String returns the string representation of the DonorStatus.
func (s DonorStatus) String() string {
	return string(s)
}

// Donor is a person registered as willing to give blood.
// Donors are never deleted; EligibleDate and Status are always derived from
// LastDonation and the hold flag.
type Donor struct {
	ID                string     // Sequential registry id, e.g. "D001".
	Name              string     // Full name as registered.
	BloodType         BloodType  // Canonical ABO/Rh group.
	Location          string     // Free text "city, region".
	Phone             string     // Primary contact number.
	Email             string     // Optional contact email.
	Age               *int       // Optional.
	Weight            *float64   // Optional, kilograms.
	MedicalConditions string     // Optional free text.
	LastDonation      *time.Time // Civil date (UTC midnight) of the last donation, nil if none.
	EligibleDate      time.Time  // LastDonation + cooldown, or the registration date when never donated.
	Status            DonorStatus
	OnHold            bool // External hold forcing not_available.
	Verified          bool
	DonationCount     int
	RegisteredAt      time.Time
	UpdatedAt         time.Time
}

// DateOf truncates t to its civil date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EligibleDateFrom returns the first date a donor may give again after donating on last.
func EligibleDateFrom(last time.Time) time.Time {
	return DateOf(last).AddDate(0, 0, DonationCooldownDays)
}

// Refresh re-derives EligibleDate and Status as of now.
func (d *Donor) Refresh(now time.Time) {
	if d.LastDonation != nil {
		d.EligibleDate = EligibleDateFrom(*d.LastDonation)
	} else if d.EligibleDate.IsZero() {
		d.EligibleDate = DateOf(now)
	}
	d.Status = d.StatusAt(now)
}

// StatusAt derives the donor status on the civil date of now.
func (d *Donor) StatusAt(now time.Time) DonorStatus {
	if d.OnHold {
		return DonorStatusNotAvailable
	}
	if d.LastDonation == nil {
		return DonorStatusAvailable
	}
	if !DateOf(now).Before(EligibleDateFrom(*d.LastDonation)) {
		return DonorStatusAvailable
	}

	return DonorStatusNotAvailable
}

// IsAvailable reports whether the donor may donate on the civil date of now.
func (d *Donor) IsAvailable(now time.Time) bool {
	return d.StatusAt(now) == DonorStatusAvailable
}

// DaysUntilEligible returns the whole days between today and the eligible date.
// The result is zero or negative once the donor is eligible.
func (d *Donor) DaysUntilEligible(now time.Time) int {
	return int(d.EligibleDate.Sub(DateOf(now)).Hours() / 24)
}

// Clone returns a deep copy so callers never share mutable state with the registry.
func (d *Donor) Clone() *Donor {
	if d == nil {
		return nil
	}

	out := *d
	if d.Age != nil {
		age := *d.Age
		out.Age = &age
	}
	if d.Weight != nil {
		weight := *d.Weight
		out.Weight = &weight
	}
	if d.LastDonation != nil {
		last := *d.LastDonation
		out.LastDonation = &last
	}

	return &out
}
