// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"strings"
)

// BloodType is one of the eight canonical ABO/Rh groups.
type BloodType string

const (
	BloodTypeONeg  BloodType = "O-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeAPos  BloodType = "A+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeABPos BloodType = "AB+"
)

// AllBloodTypes lists the canonical groups in a fixed order.
var AllBloodTypes = []BloodType{
	BloodTypeONeg, BloodTypeOPos,
	BloodTypeANeg, BloodTypeAPos,
	BloodTypeBNeg, BloodTypeBPos,
	BloodTypeABNeg, BloodTypeABPos,
}

// bloodTypeAliases maps the spellings blood banks commonly use onto the canonical group.
// Keys are already upper-cased with single spaces.
var bloodTypeAliases = map[string]BloodType{
	"A+VE": BloodTypeAPos, "A POSITIVE": BloodTypeAPos, "A POS": BloodTypeAPos, "APOSITIVE": BloodTypeAPos,
	"A-VE": BloodTypeANeg, "A NEGATIVE": BloodTypeANeg, "A NEG": BloodTypeANeg, "ANEGATIVE": BloodTypeANeg,
	"B+VE": BloodTypeBPos, "B POSITIVE": BloodTypeBPos, "B POS": BloodTypeBPos, "BPOSITIVE": BloodTypeBPos,
	"B-VE": BloodTypeBNeg, "B NEGATIVE": BloodTypeBNeg, "B NEG": BloodTypeBNeg, "BNEGATIVE": BloodTypeBNeg,
	"O+VE": BloodTypeOPos, "O POSITIVE": BloodTypeOPos, "O POS": BloodTypeOPos, "OPOSITIVE": BloodTypeOPos,
	"O-VE": BloodTypeONeg, "O NEGATIVE": BloodTypeONeg, "O NEG": BloodTypeONeg, "ONEGATIVE": BloodTypeONeg,
	"AB+VE": BloodTypeABPos, "AB POSITIVE": BloodTypeABPos, "AB POS": BloodTypeABPos, "ABPOSITIVE": BloodTypeABPos,
	"AB-VE": BloodTypeABNeg, "AB NEGATIVE": BloodTypeABNeg, "AB NEG": BloodTypeABNeg, "ABNEGATIVE": BloodTypeABNeg,
}

// ParseBloodType normalizes raw input (trim, upper-case, collapse whitespace) and
// resolves it to a canonical BloodType. The second return value is false when the
// input does not name one of the eight groups.
func ParseBloodType(raw string) (BloodType, bool) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	if normalized == "" {
		return "", false
	}

	candidate := BloodType(normalized)
	if candidate.IsValid() {
		return candidate, true
	}

	if alias, ok := bloodTypeAliases[normalized]; ok {
		return alias, true
	}

	return "", false
}

// String returns the string representation of the BloodType.
func (b BloodType) String() string {
	return string(b)
}

// IsValid checks if the BloodType is one of the canonical values.
func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeONeg, BloodTypeOPos, BloodTypeANeg, BloodTypeAPos,
		BloodTypeBNeg, BloodTypeBPos, BloodTypeABNeg, BloodTypeABPos:
		return true
	default:
		return false
	}
}

// IsRare reports whether the group has low population prevalence.
func (b BloodType) IsRare() bool {
	switch b {
	case BloodTypeONeg, BloodTypeABNeg, BloodTypeBNeg:
		return true
	default:
		return false
	}
}

// Topic returns the push-notification topic donors of this group subscribe to,
// e.g. "donors-ab-neg".
func (b BloodType) Topic() string {
	group := strings.TrimRight(string(b), "+-")
	sign := "pos"
	if strings.HasSuffix(string(b), "-") {
		sign = "neg"
	}

	return "donors-" + strings.ToLower(group) + "-" + sign
}

// BloodTypes is a slice of BloodType for convenience.
type BloodTypes []BloodType

// Contains checks if the slice contains a specific group.
func (bs BloodTypes) Contains(b BloodType) bool {
	return slices.Contains(bs, b)
}

// ToStrings converts BloodTypes to []string for serialization.
func (bs BloodTypes) ToStrings() []string {
	result := make([]string, len(bs))
	for i, b := range bs {
		result[i] = b.String()
	}

	return result
}
