package impl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/infra/persistence/memory"
	"thalassist/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// On this date only D004 is past its cooldown; D002 is 18 days out, D005 34 and D001 44.
var matchTestNow = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

const threeCities = "Chennai, Mumbai, Bangalore"

func rankedIDs(result *usecase.MatchResult) []string {
	ids := make([]string, len(result.Donors))
	for i, ranked := range result.Donors {
		ids[i] = ranked.Donor.ID
	}

	return ids
}

func TestMatchService_FindDonors_NormalOnlyAvailable(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)

	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{
		BloodGroup: "ab+",
		Location:   threeCities,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BloodTypeABPos, result.BloodType)
	assert.Equal(t, entity.UrgencyNormal, result.Urgency)
	assert.Len(t, result.CompatibleTypes, 8)
	assert.Equal(t, []string{"D004"}, rankedIDs(result))
	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, 130, result.Donors[0].Score)
	assert.Equal(t, "Regular donation request", result.Donors[0].UrgencyContext.Message)
	assert.Equal(t, "normal", result.Donors[0].UrgencyContext.ContactPriority)
	assert.Nil(t, result.Emergency)
	assert.Equal(t, matchTestNow, result.SearchedAt)
}

func TestMatchService_FindDonors_UrgentIncludesSoonEligible(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)

	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{
		BloodGroup: "AB+",
		Location:   threeCities,
		Urgency:    "URGENT",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"D004", "D002"}, rankedIDs(result))
	assert.Equal(t, "Available now", result.Donors[0].UrgencyContext.Availability)
	assert.Equal(t, "Eligible in 18 days", result.Donors[1].UrgencyContext.Availability)
	assert.Equal(t, "high", result.Donors[1].UrgencyContext.ContactPriority)
	assert.Contains(t, result.SearchTips, "Contact top-rated donors first")
}

func TestMatchService_FindDonors_EmergencyIncludesEveryone(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)

	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{
		BloodGroup: "AB+",
		Location:   threeCities,
		Urgency:    "emergency",
	})
	require.NoError(t, err)

	// D001 and D004 share the city; D005 outranks D002 on donation count.
	assert.Equal(t, []string{"D004", "D001", "D005", "D002"}, rankedIDs(result))
	assert.Equal(t, []int{130, 80, 50, 50}, []int{
		result.Donors[0].Score, result.Donors[1].Score, result.Donors[2].Score, result.Donors[3].Score,
	})
	assert.Equal(t, "immediate", result.Donors[0].UrgencyContext.ContactPriority)

	require.NotNil(t, result.Emergency)
	assert.Equal(t, result.CompatibleTypes, result.Emergency.CompatibleTypes)
	assert.Equal(t, []usecase.EmergencyContact{
		{Name: "National Blood Helpline", Phone: "1910"},
		{Name: "Red Cross Blood Bank", Phone: "011-23711551"},
		{Name: "Emergency Services", Phone: "108"},
	}, result.Emergency.EmergencyContacts)
	assert.Len(t, result.Emergency.AlternativeSources, 4)
}

func TestMatchService_FindDonors_Idempotent(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)
	input := &usecase.FindDonorsInput{
		BloodGroup: "AB+",
		Location:   threeCities,
		Urgency:    "emergency",
	}

	first, err := srv.FindDonors(context.Background(), input)
	require.NoError(t, err)
	second, err := srv.FindDonors(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, rankedIDs(first), rankedIDs(second))
	assert.Equal(t, first.TotalFound, second.TotalFound)
	for i := range first.Donors {
		assert.Equal(t, first.Donors[i].Score, second.Donors[i].Score)
		assert.Equal(t, first.Donors[i].UrgencyContext, second.Donors[i].UrgencyContext)
	}
}

func TestMatchService_FindDonors_HeldDonorOnlyInEmergency(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)
	ctx := context.Background()

	normal, err := srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "B-", Location: "Hyderabad"})
	require.NoError(t, err)
	assert.Empty(t, normal.Donors)
	assert.Zero(t, normal.TotalFound)
	assert.Contains(t, normal.SearchTips, noMatchesTip)
	assert.Contains(t, normal.SearchTips, "Contact nearest major hospital blood bank")

	urgent, err := srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "B-", Location: "Hyderabad", Urgency: "urgent"})
	require.NoError(t, err)
	assert.Empty(t, urgent.Donors)

	emergency, err := srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "B-", Location: "Hyderabad", Urgency: "emergency"})
	require.NoError(t, err)
	assert.Equal(t, []string{"D003"}, rankedIDs(emergency))
	assert.NotContains(t, emergency.SearchTips, noMatchesTip)
}

func TestMatchService_FindDonors_OnlyCompatibleTypes(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)

	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{
		BloodGroup: "O-",
		Location:   "Chennai, Mumbai, Bangalore, Hyderabad",
		Urgency:    "emergency",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BloodTypes{entity.BloodTypeONeg}, result.CompatibleTypes)
	assert.Equal(t, []string{"D005"}, rankedIDs(result))
	assert.Equal(t, 100, result.Donors[0].Score)
	assert.Equal(t, universalDonorTip, result.SearchTips[0])
	assert.Equal(t, rareBloodTypeTip, result.SearchTips[1])
}

func TestMatchService_FindDonors_LocationMatching(t *testing.T) {
	srv := newTestMatchService(seededRegistry(t, matchTestNow), matchTestNow)
	ctx := context.Background()

	tests := []struct {
		name     string
		location string
		want     []string
	}{
		{name: "region only", location: "tamil nadu", want: []string{"D004", "D001"}},
		{name: "partial city", location: "chen", want: []string{"D004", "D001"}},
		{name: "empty", location: "", want: []string{}},
		{name: "only commas", location: " , ,", want: []string{}},
		{name: "unknown city", location: "Kolkata", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.FindDonors(ctx, &usecase.FindDonorsInput{
				BloodGroup: "AB+",
				Location:   tt.location,
				Urgency:    "emergency",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rankedIDs(result))
		})
	}
}

func TestMatchService_FindDonors_TruncatesToTopTen(t *testing.T) {
	repo := memory.NewDonorRepository()
	donors := newTestDonorService(repo, matchTestNow)
	for i := range 12 {
		_, err := donors.RegisterDonor(context.Background(), &usecase.RegisterDonorInput{
			Name:       fmt.Sprintf("Donor %d", i),
			BloodGroup: "O+",
			Location:   "Pune, Maharashtra",
			Phone:      "+91-90000000" + fmt.Sprintf("%02d", i),
		})
		require.NoError(t, err)
	}
	for range 3 {
		_, err := donors.RecordDonation(context.Background(), &usecase.RecordDonationInput{
			DonorID: "D012",
			Date:    date(2023, time.June, 1),
		})
		require.NoError(t, err)
	}

	srv := newTestMatchService(repo, matchTestNow)
	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{BloodGroup: "A+", Location: "Pune, Maharashtra"})
	require.NoError(t, err)

	assert.Equal(t, 12, result.TotalFound)
	require.Len(t, result.Donors, usecase.MaxRankedDonors)
	assert.Equal(t, "D012", result.Donors[0].Donor.ID)
	// Equal keys keep registration order.
	assert.Equal(t, "D001", result.Donors[1].Donor.ID)
	assert.Equal(t, "D009", result.Donors[9].Donor.ID)
	assert.Equal(t, 100, result.Donors[0].Score)
}

func TestMatchService_FindDonors_EmptyRegistry(t *testing.T) {
	srv := newTestMatchService(memory.NewDonorRepository(), matchTestNow)

	result, err := srv.FindDonors(context.Background(), &usecase.FindDonorsInput{BloodGroup: "A-", Location: "Delhi"})
	require.NoError(t, err)
	assert.Empty(t, result.Donors)
	assert.Zero(t, result.TotalFound)
	assert.Equal(t, entity.BloodTypes{entity.BloodTypeANeg, entity.BloodTypeONeg}, result.CompatibleTypes)
	assert.NotEmpty(t, result.SearchTips)
}

func TestMatchService_FindDonors_InvalidInput(t *testing.T) {
	srv := newTestMatchService(memory.NewDonorRepository(), matchTestNow)
	ctx := context.Background()

	_, err := srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "", Location: "Delhi"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "XY", Location: "Delhi"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBloodType)

	_, err = srv.FindDonors(ctx, &usecase.FindDonorsInput{BloodGroup: "A+", Location: "Delhi", Urgency: "asap"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUrgency)
}

func TestCompatibilityScore(t *testing.T) {
	tests := []struct {
		name      string
		donor     entity.BloodType
		donorLoc  string
		queryLoc  string
		wantScore int
	}{
		{name: "exact group, city and region", donor: entity.BloodTypeAPos, donorLoc: "Chennai, Tamil Nadu", queryLoc: "chennai, tamil nadu", wantScore: 150},
		{name: "exact group, city only", donor: entity.BloodTypeAPos, donorLoc: "Chennai, Tamil Nadu", queryLoc: "Chennai", wantScore: 130},
		{name: "compatible group, region only", donor: entity.BloodTypeONeg, donorLoc: "Madurai, Tamil Nadu", queryLoc: "Chennai, Tamil Nadu", wantScore: 50},
		{name: "compatible group, city and region", donor: entity.BloodTypeOPos, donorLoc: "Chennai,Tamil Nadu", queryLoc: "Chennai, Tamil Nadu", wantScore: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compatibilityScore(tt.donor, entity.BloodTypeAPos,
				entity.LocationParts(tt.donorLoc), entity.LocationParts(tt.queryLoc))
			assert.Equal(t, tt.wantScore, got)
		})
	}
}

func TestSearchTips(t *testing.T) {
	tips := searchTips(entity.BloodTypeABNeg, entity.UrgencyEmergency, 2)
	assert.Equal(t, []string{
		rareBloodTypeTip,
		"Contact donors immediately via phone",
		"Consider nearby hospitals with donor networks",
		"Alert multiple blood banks simultaneously",
	}, tips)

	tips = searchTips(entity.BloodTypeAPos, entity.UrgencyNormal, 1)
	assert.NotContains(t, tips, rareBloodTypeTip)
	assert.Equal(t, "Plan donations in advance", tips[0])
}

func TestAvailabilitySentence(t *testing.T) {
	now := date(2024, time.March, 1)
	donor := &entity.Donor{EligibleDate: date(2024, time.May, 1)}
	assert.Equal(t, "Not eligible until 2024-05-01", availabilitySentence(donor, now))

	donor.EligibleDate = date(2024, time.March, 31)
	assert.Equal(t, "Eligible in 30 days", availabilitySentence(donor, now))

	donor.EligibleDate = date(2024, time.February, 1)
	assert.Equal(t, "Available now", availabilitySentence(donor, now))
}
