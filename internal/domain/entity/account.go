package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is a login identity for a donor or a patient.
// Donor accounts are linked to a registry entry through DonorID.
type Account struct {
	ID               uuid.UUID  // Globally unique account id.
	Email            string     // Login identifier, stored lower-cased.
	PasswordHash     string     // bcrypt hash of the password.
	Name             string     // Display name.
	Phone            string     // Contact number.
	Role             Role       // donor or patient.
	BloodType        BloodType  // Canonical group as supplied at sign-up.
	City             string     // Home city; used as the donor location.
	DateOfBirth      *time.Time // Optional.
	MedicalHistory   string     // Optional free text.
	EmergencyContact string     // Optional.
	Weight           *int       // Optional, kilograms.
	DonorID          string     // Registry id when Role is donor, empty otherwise.
	IsActive         bool
	IsVerified       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TokenRoles returns the role claims carried by the account's access tokens.
func (a *Account) TokenRoles() []string {
	return []string{a.Role.String()}
}
