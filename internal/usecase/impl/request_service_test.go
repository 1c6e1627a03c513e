package impl

import (
	"context"
	"sort"
	"testing"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"
	"thalassist/internal/domain/service"
	"thalassist/internal/infra/persistence/memory"
	mockService "thalassist/internal/mocks/service"
	"thalassist/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// requestServiceFixtures holds all test dependencies for request service tests.
type requestServiceFixtures struct {
	service     *requestService
	requestRepo repository.RequestRepository
	publisher   *mockService.MockEventPublisher
	notifier    *mockService.MockNotificationService
}

func createTestRequestService(t *testing.T) requestServiceFixtures {
	donorRepo := seededRegistry(t, matchTestNow)
	requestRepo := memory.NewRequestRepository()
	publisher := mockService.NewMockEventPublisher(t)
	notifier := mockService.NewMockNotificationService(t)

	srv := NewRequestService(RequestServiceParams{
		RequestRepo:    requestRepo,
		DonorRepo:      donorRepo,
		Matcher:        newTestMatchService(donorRepo, matchTestNow),
		EventPublisher: publisher,
		Notifier:       notifier,
		Logger:         newDiscardLogger(),
	}).(*requestService)
	srv.now = fixedClock(matchTestNow)

	return requestServiceFixtures{
		service:     srv,
		requestRepo: requestRepo,
		publisher:   publisher,
		notifier:    notifier,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestRequestService_CreateRequest_Defaults(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := deliverycontext.WithRequestID(context.Background(), "req-123")

	fx.publisher.EXPECT().
		PublishDonationRequestEvent(ctx, mock.MatchedBy(func(event *service.DonationRequestEvent) bool {
			return event.EventType == service.EventTypeDonationRequestCreated &&
				event.DonationRequestID == "R001" &&
				event.RequestID == "req-123" &&
				event.BloodType == "AB+" &&
				event.Urgency == "normal" &&
				event.MatchedDonorsCount == 1 &&
				len(event.CompatibleTypes) == 8
		})).
		Return(nil)

	out, err := fx.service.CreateRequest(ctx, &usecase.CreateRequestInput{
		BloodGroup:   "ab positive",
		Location:     "Chennai, Tamil Nadu",
		ContactPhone: "+91-9000000009",
	})
	require.NoError(t, err)

	request := out.Request
	assert.Equal(t, "R001", request.ID)
	assert.Equal(t, anonymousPatient, request.PatientName)
	assert.Equal(t, entity.BloodTypeABPos, request.BloodType)
	assert.Equal(t, entity.UrgencyNormal, request.Urgency)
	assert.Equal(t, 1, request.UnitsNeeded)
	assert.Equal(t, entity.ComponentWholeBlood, request.ComponentType)
	assert.Equal(t, entity.RequestStatusActive, request.Status)
	assert.Equal(t, matchTestNow, request.CreatedAt)
	assert.Empty(t, request.Responses)
	assert.Equal(t, 1, out.PotentialDonors)
	assert.Equal(t, requestNextSteps, out.NextSteps)

	stored, err := fx.service.GetRequest(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.MatchedDonorsCount)
}

func TestRequestService_CreateRequest_EmergencyAlertsCompatibleTopics(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	fx.publisher.EXPECT().
		PublishDonationRequestEvent(ctx, mock.AnythingOfType("*service.DonationRequestEvent")).
		Return(nil)

	var topics []string
	fx.notifier.EXPECT().
		SendTopicNotification(ctx, mock.Anything, "AB- blood needed", "Emergency request in Hyderabad: 2 unit(s) of Platelets", mock.Anything).
		Run(func(_ context.Context, topic, _, _ string, data map[string]string) {
			topics = append(topics, topic)
			assert.Equal(t, "R001", data["donation_request_id"])
			assert.Equal(t, "2", data["units_needed"])
		}).
		Return(nil).
		Times(4)

	out, err := fx.service.CreateRequest(ctx, &usecase.CreateRequestInput{
		PatientName:   "Arjun",
		BloodGroup:    "AB-",
		Location:      "Hyderabad",
		Urgency:       "emergency",
		ContactPhone:  "+91-9000000010",
		UnitsNeeded:   intPtr(2),
		ComponentType: "SDP",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ComponentPlatelets, out.Request.ComponentType)
	assert.Equal(t, 1, out.PotentialDonors)

	sort.Strings(topics)
	assert.Equal(t, []string{"donors-a-neg", "donors-ab-neg", "donors-b-neg", "donors-o-neg"}, topics)
}

func TestRequestService_CreateRequest_AnnounceFailuresAreLogged(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	fx.publisher.EXPECT().
		PublishDonationRequestEvent(ctx, mock.Anything).
		Return(errors.New("broker unavailable"))
	fx.notifier.EXPECT().
		SendTopicNotification(ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("fcm unavailable")).
		Times(2)

	out, err := fx.service.CreateRequest(ctx, &usecase.CreateRequestInput{
		BloodGroup:   "O+",
		Location:     "Mumbai",
		Urgency:      "urgent",
		ContactPhone: "+91-9000000011",
	})
	require.NoError(t, err)
	assert.Equal(t, "R001", out.Request.ID)

	requests, err := fx.requestRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestRequestService_CreateRequest_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   *usecase.CreateRequestInput
		wantErr error
	}{
		{
			name:    "missing contact phone",
			input:   &usecase.CreateRequestInput{BloodGroup: "A+"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "missing blood group",
			input:   &usecase.CreateRequestInput{ContactPhone: "123"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "invalid blood group",
			input:   &usecase.CreateRequestInput{BloodGroup: "Z", ContactPhone: "123"},
			wantErr: domainerrors.ErrInvalidBloodType,
		},
		{
			name:    "invalid urgency",
			input:   &usecase.CreateRequestInput{BloodGroup: "A+", ContactPhone: "123", Urgency: "later"},
			wantErr: domainerrors.ErrInvalidUrgency,
		},
		{
			name:    "zero units",
			input:   &usecase.CreateRequestInput{BloodGroup: "A+", ContactPhone: "123", UnitsNeeded: intPtr(0)},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "unknown component",
			input:   &usecase.CreateRequestInput{BloodGroup: "A+", ContactPhone: "123", ComponentType: "Bone Marrow"},
			wantErr: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestRequestService(t)

			_, err := fx.service.CreateRequest(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			requests, err := fx.requestRepo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, requests)
		})
	}
}

func seedRequests(t *testing.T, fx requestServiceFixtures, n int) {
	t.Helper()

	fx.publisher.EXPECT().
		PublishDonationRequestEvent(mock.Anything, mock.Anything).
		Return(nil).
		Times(n)

	for range n {
		_, err := fx.service.CreateRequest(context.Background(), &usecase.CreateRequestInput{
			BloodGroup:   "B+",
			Location:     "Bangalore",
			ContactPhone: "+91-9000000012",
		})
		require.NoError(t, err)
	}
}

func TestRequestService_ListRequests(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	seedRequests(t, fx, 3)

	_, err := fx.service.CloseRequest(ctx, "R002")
	require.NoError(t, err)

	tests := []struct {
		status string
		want   []string
	}{
		{status: "", want: []string{"R001", "R003"}},
		{status: "active", want: []string{"R001", "R003"}},
		{status: "Closed", want: []string{"R002"}},
		{status: "all", want: []string{"R001", "R002", "R003"}},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			requests, err := fx.service.ListRequests(ctx, tt.status)
			require.NoError(t, err)

			ids := make([]string, len(requests))
			for i, request := range requests {
				ids[i] = request.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err = fx.service.ListRequests(ctx, "pending")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestRequestService_RespondToRequest(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	seedRequests(t, fx, 1)

	request, err := fx.service.RespondToRequest(ctx, &usecase.RespondToRequestInput{RequestID: "R001", DonorID: "D001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"D001"}, request.Responses)

	request, err = fx.service.RespondToRequest(ctx, &usecase.RespondToRequestInput{RequestID: "R001", DonorID: "D001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"D001"}, request.Responses)

	_, err = fx.service.RespondToRequest(ctx, &usecase.RespondToRequestInput{RequestID: "R001", DonorID: "D404"})
	assert.ErrorIs(t, err, domainerrors.ErrDonorNotFound)

	_, err = fx.service.RespondToRequest(ctx, &usecase.RespondToRequestInput{RequestID: "R404", DonorID: "D001"})
	assert.ErrorIs(t, err, domainerrors.ErrRequestNotFound)

	_, err = fx.service.CloseRequest(ctx, "R001")
	require.NoError(t, err)

	_, err = fx.service.RespondToRequest(ctx, &usecase.RespondToRequestInput{RequestID: "R001", DonorID: "D002"})
	assert.ErrorIs(t, err, domainerrors.ErrRequestClosed)

	stored, err := fx.service.GetRequest(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, []string{"D001"}, stored.Responses)
}

func TestRequestService_CloseRequest_Idempotent(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	seedRequests(t, fx, 1)

	closed, err := fx.service.CloseRequest(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, matchTestNow, *closed.ClosedAt)

	fx.service.now = fixedClock(matchTestNow.Add(time.Hour))
	again, err := fx.service.CloseRequest(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, matchTestNow, *again.ClosedAt)

	_, err = fx.service.CloseRequest(ctx, "R404")
	assert.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}
