package entity

import "strings"

// Urgency is the caller-supplied policy switch that controls how strictly donor
// eligibility is enforced during matching.
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// ParseUrgency normalizes raw input. An empty value means normal.
func ParseUrgency(raw string) (Urgency, bool) {
	normalized := Urgency(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return UrgencyNormal, true
	}

	return normalized, normalized.IsValid()
}

// String returns the string representation of the Urgency.
func (u Urgency) String() string {
	return string(u)
}

// IsValid checks if the Urgency is a valid value.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	default:
		return false
	}
}

// Level orders the tiers: normal < urgent < emergency.
func (u Urgency) Level() int {
	switch u {
	case UrgencyUrgent:
		return 1
	case UrgencyEmergency:
		return 2
	default:
		return 0
	}
}
