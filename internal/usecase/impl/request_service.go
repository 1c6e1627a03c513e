package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/domain/entity"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"
	"thalassist/internal/domain/service"
	"thalassist/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const anonymousPatient = "Anonymous"

var requestNextSteps = []string{
	"Potential donors will be contacted",
	"You will receive updates on donor responses",
	"Keep your contact information available",
}

// requestService implements the RequestUsecase interface.
type requestService struct {
	requestRepo    repository.RequestRepository
	donorRepo      repository.DonorRepository
	matcher        usecase.MatchUsecase
	eventPublisher service.EventPublisher
	notifier       service.NotificationService
	logger         *slog.Logger
	now            func() time.Time
}

// RequestServiceParams holds dependencies for RequestService, injected by Fx.
type RequestServiceParams struct {
	fx.In

	RequestRepo    repository.RequestRepository
	DonorRepo      repository.DonorRepository
	Matcher        usecase.MatchUsecase
	EventPublisher service.EventPublisher
	Notifier       service.NotificationService
	Logger         *slog.Logger
}

// NewRequestService is the constructor for requestService.
func NewRequestService(params RequestServiceParams) usecase.RequestUsecase {
	return &requestService{
		requestRepo:    params.RequestRepo,
		donorRepo:      params.DonorRepo,
		matcher:        params.Matcher,
		eventPublisher: params.EventPublisher,
		notifier:       params.Notifier,
		logger:         params.Logger,
		now:            time.Now,
	}
}

func (srv *requestService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// CreateRequest validates and appends a donation request, then announces it.
func (srv *requestService) CreateRequest(ctx context.Context, input *usecase.CreateRequestInput) (*usecase.CreateRequestOutput, error) {
	if missing := missingFields(map[string]string{
		"blood_group":   input.BloodGroup,
		"contact_phone": input.ContactPhone,
	}, "blood_group", "contact_phone"); len(missing) > 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("missing required fields: " + strings.Join(missing, ", "))
	}

	bloodType, ok := entity.ParseBloodType(input.BloodGroup)
	if !ok {
		return nil, domainerrors.ErrInvalidBloodType.WithDetails(input.BloodGroup)
	}

	urgency, ok := entity.ParseUrgency(input.Urgency)
	if !ok {
		return nil, domainerrors.ErrInvalidUrgency.WithDetails(input.Urgency)
	}

	units := 1
	if input.UnitsNeeded != nil {
		units = *input.UnitsNeeded
	}
	if units < 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("units_needed must be at least 1")
	}

	component, ok := entity.ParseComponent(input.ComponentType)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown component_type: " + input.ComponentType)
	}

	patientName := strings.TrimSpace(input.PatientName)
	if patientName == "" {
		patientName = anonymousPatient
	}

	var neededBy *time.Time
	if input.NeededBy != nil {
		date := entity.DateOf(*input.NeededBy)
		neededBy = &date
	}

	match, err := srv.matcher.FindDonors(ctx, &usecase.FindDonorsInput{
		BloodGroup: bloodType.String(),
		Location:   input.Location,
		Urgency:    urgency.String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to match donors for request")
	}

	now := srv.now()
	request := &entity.DonationRequest{
		PatientName:        patientName,
		BloodType:          bloodType,
		Location:           strings.TrimSpace(input.Location),
		Urgency:            urgency,
		Hospital:           strings.TrimSpace(input.Hospital),
		ContactPerson:      strings.TrimSpace(input.ContactPerson),
		ContactPhone:       strings.TrimSpace(input.ContactPhone),
		UnitsNeeded:        units,
		ComponentType:      component,
		NeededBy:           neededBy,
		AdditionalInfo:     strings.TrimSpace(input.AdditionalInfo),
		Status:             entity.RequestStatusActive,
		MatchedDonorsCount: match.TotalFound,
		Responses:          []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := srv.requestRepo.Create(ctx, request); err != nil {
		srv.log(ctx).Error("Failed to create donation request", slog.String("bloodType", bloodType.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create donation request")
	}

	srv.log(ctx).Info("Donation request created",
		slog.String("requestID", request.ID),
		slog.String("bloodType", bloodType.String()),
		slog.String("urgency", urgency.String()),
		slog.Int("matchedDonors", request.MatchedDonorsCount),
	)

	srv.announce(ctx, request, match.CompatibleTypes)

	return &usecase.CreateRequestOutput{
		Request:         request,
		PotentialDonors: match.TotalFound,
		NextSteps:       append([]string(nil), requestNextSteps...),
	}, nil
}

// announce publishes the creation event and alerts compatible donor topics.
// Failures are logged and never undo the request.
func (srv *requestService) announce(ctx context.Context, request *entity.DonationRequest, compatible entity.BloodTypes) {
	event := &service.DonationRequestEvent{
		EventID:            uuid.New().String(),
		EventType:          service.EventTypeDonationRequestCreated,
		RequestID:          deliverycontext.RequestIDFrom(ctx),
		DonationRequestID:  request.ID,
		BloodType:          request.BloodType.String(),
		CompatibleTypes:    compatible.ToStrings(),
		Location:           request.Location,
		Urgency:            request.Urgency.String(),
		UnitsNeeded:        request.UnitsNeeded,
		ComponentType:      request.ComponentType.String(),
		MatchedDonorsCount: request.MatchedDonorsCount,
		CreatedAt:          request.CreatedAt,
	}
	if err := srv.eventPublisher.PublishDonationRequestEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish donation request event",
			slog.String("requestID", request.ID),
			slog.Any("error", err),
		)
	}

	if request.Urgency.Level() < entity.UrgencyUrgent.Level() {
		return
	}

	title := fmt.Sprintf("%s blood needed", request.BloodType)
	body := fmt.Sprintf("%s request in %s: %d unit(s) of %s",
		strings.ToUpper(request.Urgency.String()[:1])+request.Urgency.String()[1:],
		request.Location, request.UnitsNeeded, request.ComponentType)
	data := map[string]string{
		"donation_request_id": request.ID,
		"blood_type":          request.BloodType.String(),
		"urgency":             request.Urgency.String(),
		"location":            request.Location,
		"units_needed":        strconv.Itoa(request.UnitsNeeded),
		"contact_phone":       request.ContactPhone,
	}

	for _, donorType := range compatible {
		if err := srv.notifier.SendTopicNotification(ctx, donorType.Topic(), title, body, data); err != nil {
			srv.log(ctx).Warn("Failed to alert donor topic",
				slog.String("requestID", request.ID),
				slog.String("topic", donorType.Topic()),
				slog.Any("error", err),
			)
		}
	}
}

// GetRequest returns a single request from the ledger.
func (srv *requestService) GetRequest(ctx context.Context, requestID string) (*entity.DonationRequest, error) {
	request, err := srv.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, translateRequestError(err, "failed to get donation request")
	}

	return request, nil
}

// ListRequests returns ledger entries in creation order filtered by status.
func (srv *requestService) ListRequests(ctx context.Context, status string) ([]*entity.DonationRequest, error) {
	filter := strings.ToLower(strings.TrimSpace(status))
	if filter == "" {
		filter = entity.RequestStatusActive.String()
	}

	switch filter {
	case entity.RequestStatusActive.String(), entity.RequestStatusClosed.String(), usecase.RequestFilterAll:
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("status must be active, closed or all")
	}

	requests, err := srv.requestRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list donation requests")
	}

	if filter == usecase.RequestFilterAll {
		return requests, nil
	}

	filtered := make([]*entity.DonationRequest, 0, len(requests))
	for _, request := range requests {
		if request.Status.String() == filter {
			filtered = append(filtered, request)
		}
	}

	return filtered, nil
}

// RespondToRequest records that a registered donor answered an active request.
func (srv *requestService) RespondToRequest(ctx context.Context, input *usecase.RespondToRequestInput) (*entity.DonationRequest, error) {
	if _, err := srv.donorRepo.FindByID(ctx, input.DonorID); err != nil {
		if errors.Is(err, repository.ErrDonorNotFound) {
			return nil, domainerrors.ErrDonorNotFound
		}

		return nil, errors.Wrap(err, "failed to find responding donor")
	}

	now := srv.now()
	request, err := srv.requestRepo.Update(ctx, input.RequestID, func(request *entity.DonationRequest) error {
		if !request.IsActive() {
			return domainerrors.ErrRequestClosed
		}
		if !request.HasResponseFrom(input.DonorID) {
			request.Responses = append(request.Responses, input.DonorID)
			request.UpdatedAt = now
		}

		return nil
	})
	if err != nil {
		return nil, translateRequestError(err, "failed to record donor response")
	}

	srv.log(ctx).Info("Donor responded to request",
		slog.String("requestID", request.ID),
		slog.String("donorID", input.DonorID),
		slog.Int("responses", len(request.Responses)),
	)

	return request, nil
}

// CloseRequest moves a request to closed. Closing a closed request is a no-op.
func (srv *requestService) CloseRequest(ctx context.Context, requestID string) (*entity.DonationRequest, error) {
	now := srv.now()
	request, err := srv.requestRepo.Update(ctx, requestID, func(request *entity.DonationRequest) error {
		if !request.IsActive() {
			return nil
		}
		request.Status = entity.RequestStatusClosed
		request.ClosedAt = &now
		request.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, translateRequestError(err, "failed to close donation request")
	}

	srv.log(ctx).Info("Donation request closed", slog.String("requestID", request.ID))

	return request, nil
}

func translateRequestError(err error, message string) error {
	if errors.Is(err, repository.ErrRequestNotFound) {
		return domainerrors.ErrRequestNotFound
	}
	if errors.Is(err, domainerrors.ErrRequestClosed) {
		return err
	}

	return errors.Wrap(err, message)
}
