package entity

// receivesFrom lists, for each recipient group, the donor groups it can safely receive.
// The relation is not symmetric; donatesTo is its inverse.
var receivesFrom = map[BloodType]BloodTypes{
	BloodTypeAPos:  {BloodTypeAPos, BloodTypeANeg, BloodTypeOPos, BloodTypeONeg},
	BloodTypeANeg:  {BloodTypeANeg, BloodTypeONeg},
	BloodTypeBPos:  {BloodTypeBPos, BloodTypeBNeg, BloodTypeOPos, BloodTypeONeg},
	BloodTypeBNeg:  {BloodTypeBNeg, BloodTypeONeg},
	BloodTypeABPos: {BloodTypeABPos, BloodTypeABNeg, BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg, BloodTypeOPos, BloodTypeONeg},
	BloodTypeABNeg: {BloodTypeABNeg, BloodTypeANeg, BloodTypeBNeg, BloodTypeONeg},
	BloodTypeOPos:  {BloodTypeOPos, BloodTypeONeg},
	BloodTypeONeg:  {BloodTypeONeg},
}

var donatesTo = invertCompatibility(receivesFrom)

func invertCompatibility(table map[BloodType]BloodTypes) map[BloodType]BloodTypes {
	inverse := make(map[BloodType]BloodTypes, len(AllBloodTypes))
	for _, recipient := range AllBloodTypes {
		for _, donor := range table[recipient] {
			inverse[donor] = append(inverse[donor], recipient)
		}
	}

	return inverse
}

// CompatibleDonorTypes returns every group that may donate to the recipient group.
// Unknown groups yield nil.
func CompatibleDonorTypes(recipient BloodType) BloodTypes {
	return cloneBloodTypes(receivesFrom[recipient])
}

// RecipientTypes returns every group the donor group may donate to.
func RecipientTypes(donor BloodType) BloodTypes {
	return cloneBloodTypes(donatesTo[donor])
}

// CanReceiveFrom reports whether recipient may safely receive blood from donor.
func CanReceiveFrom(recipient, donor BloodType) bool {
	return receivesFrom[recipient].Contains(donor)
}

func cloneBloodTypes(bs BloodTypes) BloodTypes {
	if bs == nil {
		return nil
	}

	out := make(BloodTypes, len(bs))
	copy(out, bs)

	return out
}
