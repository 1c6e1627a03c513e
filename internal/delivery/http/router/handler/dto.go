package handler

import (
	"encoding/json"
	"strings"
	"time"

	"thalassist/internal/domain/entity"
	"thalassist/internal/errors"
	"thalassist/internal/usecase"
)

// DateLayout is the civil date format used on the wire.
const DateLayout = time.DateOnly

// Date accepts "2006-01-02" or a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "date must be a string")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}

		return nil
	}

	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t

			return nil
		}
	}

	return errors.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}

// ptr returns nil for absent or empty dates.
func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time

	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)

	return &s
}

// DonorResponse is the public view of a registry donor.
type DonorResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	BloodGroup        string    `json:"blood_group"`
	Location          string    `json:"location"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	MedicalConditions string    `json:"medical_conditions,omitempty"`
	LastDonation      *string   `json:"last_donation"`
	EligibleDate      string    `json:"eligible_date"`
	Status            string    `json:"status"`
	Verified          bool      `json:"verified"`
	DonationCount     int       `json:"donation_count"`
	RegisteredAt      time.Time `json:"registered_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDonorResponse(d *entity.Donor) DonorResponse {
	return DonorResponse{
		ID:                d.ID,
		Name:              d.Name,
		BloodGroup:        d.BloodType.String(),
		Location:          d.Location,
		Phone:             d.Phone,
		Email:             d.Email,
		Age:               d.Age,
		Weight:            d.Weight,
		MedicalConditions: d.MedicalConditions,
		LastDonation:      formatDate(d.LastDonation),
		EligibleDate:      d.EligibleDate.Format(DateLayout),
		Status:            d.Status.String(),
		Verified:          d.Verified,
		DonationCount:     d.DonationCount,
		RegisteredAt:      d.RegisteredAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toDonorResponses(donors []*entity.Donor) []DonorResponse {
	out := make([]DonorResponse, 0, len(donors))
	for _, d := range donors {
		out = append(out, toDonorResponse(d))
	}

	return out
}

// UrgencyContextResponse tells the caller how to approach a ranked donor.
type UrgencyContextResponse struct {
	Level           string `json:"level"`
	Message         string `json:"message"`
	ContactPriority string `json:"contact_priority"`
	Availability    string `json:"availability,omitempty"`
}

// RankedDonorResponse is a donor in search results.
type RankedDonorResponse struct {
	DonorResponse
	CompatibilityScore int                    `json:"compatibility_score"`
	UrgencyContext     UrgencyContextResponse `json:"urgency_context"`
}

// SearchRequestEcho repeats the normalized search back to the caller.
type SearchRequestEcho struct {
	BloodGroup string    `json:"blood_group"`
	Location   string    `json:"location"`
	Urgency    string    `json:"urgency"`
	Timestamp  time.Time `json:"timestamp"`
}

// EmergencyAlternativesResponse is attached to emergency searches.
type EmergencyAlternativesResponse struct {
	CompatibleGroups   []string          `json:"compatible_groups"`
	EmergencyContacts  map[string]string `json:"emergency_contacts"`
	AlternativeSources []string          `json:"alternative_sources"`
}

// MatchResponse is the body of GET /donor-match.
type MatchResponse struct {
	Request               SearchRequestEcho              `json:"request"`
	CompatibleBloodGroups []string                       `json:"compatible_blood_groups"`
	DonorsFound           int                            `json:"donors_found"`
	Donors                []RankedDonorResponse          `json:"donors"`
	SearchTips            []string                       `json:"search_tips"`
	EmergencyAlternatives *EmergencyAlternativesResponse `json:"emergency_alternatives"`
}

func toMatchResponse(result *usecase.MatchResult) MatchResponse {
	donors := make([]RankedDonorResponse, 0, len(result.Donors))
	for _, ranked := range result.Donors {
		donors = append(donors, RankedDonorResponse{
			DonorResponse:      toDonorResponse(ranked.Donor),
			CompatibilityScore: ranked.Score,
			UrgencyContext: UrgencyContextResponse{
				Level:           ranked.UrgencyContext.Level.String(),
				Message:         ranked.UrgencyContext.Message,
				ContactPriority: ranked.UrgencyContext.ContactPriority,
				Availability:    ranked.UrgencyContext.Availability,
			},
		})
	}

	resp := MatchResponse{
		Request: SearchRequestEcho{
			BloodGroup: result.BloodType.String(),
			Location:   result.Location,
			Urgency:    result.Urgency.String(),
			Timestamp:  result.SearchedAt,
		},
		CompatibleBloodGroups: result.CompatibleTypes.ToStrings(),
		DonorsFound:           result.TotalFound,
		Donors:                donors,
		SearchTips:            result.SearchTips,
	}

	if alt := result.Emergency; alt != nil {
		contacts := make(map[string]string, len(alt.EmergencyContacts))
		for _, contact := range alt.EmergencyContacts {
			contacts[contact.Name] = contact.Phone
		}
		resp.EmergencyAlternatives = &EmergencyAlternativesResponse{
			CompatibleGroups:   alt.CompatibleTypes.ToStrings(),
			EmergencyContacts:  contacts,
			AlternativeSources: alt.AlternativeSources,
		}
	}

	return resp
}

// DonationRequestResponse is the public view of a ledger entry.
type DonationRequestResponse struct {
	ID                 string     `json:"id"`
	PatientName        string     `json:"patient_name"`
	BloodGroup         string     `json:"blood_group"`
	Location           string     `json:"location"`
	Urgency            string     `json:"urgency"`
	Hospital           string     `json:"hospital,omitempty"`
	ContactPerson      string     `json:"contact_person,omitempty"`
	ContactPhone       string     `json:"contact_phone"`
	UnitsNeeded        int        `json:"units_needed"`
	ComponentType      string     `json:"component_type"`
	NeededBy           *string    `json:"needed_by,omitempty"`
	AdditionalInfo     string     `json:"additional_info,omitempty"`
	Status             string     `json:"status"`
	MatchedDonorsCount int        `json:"matched_donors_count"`
	Responses          []string   `json:"responses"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
}

func toDonationRequestResponse(r *entity.DonationRequest) DonationRequestResponse {
	responses := r.Responses
	if responses == nil {
		responses = []string{}
	}

	return DonationRequestResponse{
		ID:                 r.ID,
		PatientName:        r.PatientName,
		BloodGroup:         r.BloodType.String(),
		Location:           r.Location,
		Urgency:            r.Urgency.String(),
		Hospital:           r.Hospital,
		ContactPerson:      r.ContactPerson,
		ContactPhone:       r.ContactPhone,
		UnitsNeeded:        r.UnitsNeeded,
		ComponentType:      r.ComponentType.String(),
		NeededBy:           formatDate(r.NeededBy),
		AdditionalInfo:     r.AdditionalInfo,
		Status:             r.Status.String(),
		MatchedDonorsCount: r.MatchedDonorsCount,
		Responses:          responses,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		ClosedAt:           r.ClosedAt,
	}
}

// AccountResponse is the profile returned by /api/auth/me.
type AccountResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	UserType         string    `json:"user_type"`
	BloodGroup       string    `json:"blood_group"`
	City             string    `json:"city"`
	DateOfBirth      *string   `json:"date_of_birth,omitempty"`
	MedicalHistory   string    `json:"medical_history,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	Weight           *int      `json:"weight,omitempty"`
	DonorID          string    `json:"donor_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	IsVerified       bool      `json:"is_verified"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID.String(),
		Email:            a.Email,
		Name:             a.Name,
		Phone:            a.Phone,
		UserType:         a.Role.String(),
		BloodGroup:       a.BloodType.String(),
		City:             a.City,
		DateOfBirth:      formatDate(a.DateOfBirth),
		MedicalHistory:   a.MedicalHistory,
		EmergencyContact: a.EmergencyContact,
		Weight:           a.Weight,
		DonorID:          a.DonorID,
		IsActive:         a.IsActive,
		IsVerified:       a.IsVerified,
		CreatedAt:        a.CreatedAt,
	}
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"` // Seconds.
	Account      AccountResponse `json:"account"`
}

func toTokenResponse(out *usecase.AuthOutput) TokenResponse {
	return TokenResponse{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		ExpiresIn:    int64(out.ExpiresIn.Seconds()),
		Account:      toAccountResponse(out.Account),
	}
}
