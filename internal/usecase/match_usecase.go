package usecase

import (
	"context"
	"time"

	"thalassist/internal/domain/entity"
)

// MaxRankedDonors caps the ranked list returned by a search.
const MaxRankedDonors = 10

// FindDonorsInput carries a raw search as received from the caller.
type FindDonorsInput struct {
	BloodGroup string
	Location   string
	Urgency    string
}

// UrgencyContext tells the caller how to approach a ranked donor.
type UrgencyContext struct {
	Level           entity.Urgency
	Message         string
	ContactPriority string
	Availability    string // Set for urgent searches only.
}

// RankedDonor is a donor that passed every filter, with its ranking score.
type RankedDonor struct {
	Donor          *entity.Donor
	Score          int
	UrgencyContext UrgencyContext
}

// EmergencyContact is a static helpline surfaced for emergency searches.
type EmergencyContact struct {
	Name  string
	Phone string
}

// EmergencyAlternatives is attached to emergency searches.
type EmergencyAlternatives struct {
	CompatibleTypes    entity.BloodTypes
	EmergencyContacts  []EmergencyContact
	AlternativeSources []string
}

// MatchResult is the ranked outcome of a donor search. An empty Donors list is a
// valid result, not an error.
type MatchResult struct {
	BloodType       entity.BloodType
	Location        string
	Urgency         entity.Urgency
	SearchedAt      time.Time
	CompatibleTypes entity.BloodTypes
	TotalFound      int // Matches before truncation.
	Donors          []RankedDonor
	SearchTips      []string
	Emergency       *EmergencyAlternatives
}

// MatchUsecase ranks registry donors against a blood request.
type MatchUsecase interface {
	FindDonors(ctx context.Context, input *FindDonorsInput) (*MatchResult, error)
}
