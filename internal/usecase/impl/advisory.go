package impl

import (
	"fmt"
	"time"

	"thalassist/internal/domain/entity"
	"thalassist/internal/usecase"
)

const (
	universalDonorTip = "O- is universal donor - consider expanding location search"
	rareBloodTypeTip  = "Rare blood group - consider contacting multiple blood banks"
	noMatchesTip      = "No matching donors found - widen the search to nearby cities or the whole region"
	urgentWindowDays  = 30
	availabilityDateF = "2006-01-02"
)

var urgencyTips = map[entity.Urgency][]string{
	entity.UrgencyEmergency: {
		"Contact donors immediately via phone",
		"Consider nearby hospitals with donor networks",
		"Alert multiple blood banks simultaneously",
	},
	entity.UrgencyUrgent: {
		"Contact top-rated donors first",
		"Have backup donors ready",
		"Consider expanding search radius",
	},
	entity.UrgencyNormal: {
		"Plan donations in advance",
		"Build relationships with regular donors",
		"Consider organizing donation camps",
	},
}

var alternativeSources = []string{
	"Contact nearest major hospital blood bank",
	"Reach out to medical colleges",
	"Contact voluntary blood donor organizations",
	"Consider inter-hospital blood bank transfers",
}

var emergencyContacts = []usecase.EmergencyContact{
	{Name: "National Blood Helpline", Phone: "1910"},
	{Name: "Red Cross Blood Bank", Phone: "011-23711551"},
	{Name: "Emergency Services", Phone: "108"},
}

// searchTips builds the advisory list for a search. Blood group tips come
// first, then urgency tips, then the no-matches branch.
func searchTips(bloodType entity.BloodType, urgency entity.Urgency, matched int) []string {
	var tips []string

	if bloodType == entity.BloodTypeONeg {
		tips = append(tips, universalDonorTip)
	}
	if bloodType.IsRare() {
		tips = append(tips, rareBloodTypeTip)
	}

	tips = append(tips, urgencyTips[urgency]...)

	if matched == 0 {
		tips = append(tips, noMatchesTip)
		tips = append(tips, alternativeSources...)
	}

	return tips
}

// emergencyAlternatives is the static block attached to emergency searches.
func emergencyAlternatives(compatible entity.BloodTypes) *usecase.EmergencyAlternatives {
	return &usecase.EmergencyAlternatives{
		CompatibleTypes:    compatible,
		EmergencyContacts:  append([]usecase.EmergencyContact(nil), emergencyContacts...),
		AlternativeSources: append([]string(nil), alternativeSources...),
	}
}

// urgencyContext tells the requester how to approach a ranked donor.
func urgencyContext(donor *entity.Donor, urgency entity.Urgency, now time.Time) usecase.UrgencyContext {
	switch urgency {
	case entity.UrgencyEmergency:
		return usecase.UrgencyContext{
			Level:           urgency,
			Message:         "Emergency case - donor may consider immediate donation",
			ContactPriority: "immediate",
		}
	case entity.UrgencyUrgent:
		return usecase.UrgencyContext{
			Level:           urgency,
			Message:         "Urgent case - please contact as soon as possible",
			ContactPriority: "high",
			Availability:    availabilitySentence(donor, now),
		}
	default:
		return usecase.UrgencyContext{
			Level:           urgency,
			Message:         "Regular donation request",
			ContactPriority: "normal",
		}
	}
}

func availabilitySentence(donor *entity.Donor, now time.Time) string {
	days := donor.DaysUntilEligible(now)

	switch {
	case days <= 0:
		return "Available now"
	case days <= urgentWindowDays:
		return fmt.Sprintf("Eligible in %d days", days)
	default:
		return "Not eligible until " + donor.EligibleDate.Format(availabilityDateF)
	}
}
