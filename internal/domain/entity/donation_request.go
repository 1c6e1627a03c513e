package entity

import (
	"slices"
	"time"
)

// RequestStatus is the lifecycle state of a DonationRequest.
type RequestStatus string

const (
	RequestStatusActive RequestStatus = "active"
	RequestStatusClosed RequestStatus = "closed"
)

// String returns the string representation of the RequestStatus.
func (s RequestStatus) String() string {
	return string(s)
}

// DonationRequest is a patient-side request for blood, kept in the ledger.
type DonationRequest struct {
	ID                 string // Sequential ledger id, e.g. "R001".
	PatientName        string // "Anonymous" when not supplied.
	BloodType          BloodType
	Location           string
	Urgency            Urgency
	Hospital           string
	ContactPerson      string
	ContactPhone       string
	UnitsNeeded        int
	ComponentType      Component
	NeededBy           *time.Time // Optional civil date.
	AdditionalInfo     string
	Status             RequestStatus
	MatchedDonorsCount int      // Snapshot of matching donors found at creation time.
	Responses          []string // Donor ids that answered the request, in order.
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClosedAt           *time.Time
}

// IsActive reports whether the request still accepts responses.
func (r *DonationRequest) IsActive() bool {
	return r.Status == RequestStatusActive
}

// HasResponseFrom reports whether donorID already answered the request.
func (r *DonationRequest) HasResponseFrom(donorID string) bool {
	return slices.Contains(r.Responses, donorID)
}

// Clone returns a deep copy of the request.
func (r *DonationRequest) Clone() *DonationRequest {
	if r == nil {
		return nil
	}

	out := *r
	out.Responses = slices.Clone(r.Responses)
	if r.NeededBy != nil {
		neededBy := *r.NeededBy
		out.NeededBy = &neededBy
	}
	if r.ClosedAt != nil {
		closedAt := *r.ClosedAt
		out.ClosedAt = &closedAt
	}

	return &out
}
