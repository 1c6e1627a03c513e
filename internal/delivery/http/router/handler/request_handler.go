package handler

import (
	"net/http"
	"time"

	"thalassist/internal/delivery/http/middleware"
	"thalassist/internal/delivery/http/response"
	"thalassist/internal/errors"
	"thalassist/internal/infra/metrics"
	"thalassist/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RequestHandlerParams holds dependencies for RequestHandler, injected by Fx.
type RequestHandlerParams struct {
	fx.In

	RequestUC usecase.RequestUsecase
	AccountUC usecase.AccountUsecase
	Metrics   *metrics.Metrics
}

// RequestHandler serves the donation request ledger.
type RequestHandler struct {
	requestUC usecase.RequestUsecase
	accountUC usecase.AccountUsecase
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRequestHandler is the constructor for RequestHandler.
func NewRequestHandler(params RequestHandlerParams) *RequestHandler {
	return &RequestHandler{
		requestUC: params.RequestUC,
		accountUC: params.AccountUC,
		metrics:   params.Metrics,
		now:       time.Now,
	}
}

// CreateRequestRequest is the body of POST /donation-requests.
type CreateRequestRequest struct {
	PatientName    string `json:"patient_name"`
	BloodGroup     string `json:"blood_group"`
	Location       string `json:"location"`
	Urgency        string `json:"urgency"`
	Hospital       string `json:"hospital"`
	ContactPerson  string `json:"contact_person"`
	ContactPhone   string `json:"contact_phone"`
	UnitsNeeded    *int   `json:"units_needed"`
	ComponentType  string `json:"component_type"`
	NeededBy       *Date  `json:"needed_by"`
	AdditionalInfo string `json:"additional_info"`
}

// CreateRequestResponse confirms a new ledger entry.
type CreateRequestResponse struct {
	RequestID       string                  `json:"request_id"`
	PotentialDonors int                     `json:"potential_donors"`
	RequestDetails  DonationRequestResponse `json:"request_details"`
	NextSteps       []string                `json:"next_steps"`
}

// ListRequestsResponse is the body of GET /donation-requests.
type ListRequestsResponse struct {
	TotalRequests int                       `json:"total_requests"`
	Requests      []DonationRequestResponse `json:"requests"`
	StatusFilter  string                    `json:"status_filter"`
	LastUpdated   time.Time                 `json:"last_updated"`
}

// RespondRequest is the optional body of POST /donation-requests/:id/responses.
// The responding donor is always the caller; DonorID only guards against a mismatch.
type RespondRequest struct {
	DonorID string `json:"donor_id"`
}

// CreateRequest opens a donation request.
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donation request input")
	}

	output, err := h.requestUC.CreateRequest(c.Request().Context(), &usecase.CreateRequestInput{
		PatientName:    req.PatientName,
		BloodGroup:     req.BloodGroup,
		Location:       req.Location,
		Urgency:        req.Urgency,
		Hospital:       req.Hospital,
		ContactPerson:  req.ContactPerson,
		ContactPhone:   req.ContactPhone,
		UnitsNeeded:    req.UnitsNeeded,
		ComponentType:  req.ComponentType,
		NeededBy:       req.NeededBy.ptr(),
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	h.metrics.DonationRequests.WithLabelValues(output.Request.Urgency.String()).Inc()

	return response.Created(c, CreateRequestResponse{
		RequestID:       output.Request.ID,
		PotentialDonors: output.PotentialDonors,
		RequestDetails:  toDonationRequestResponse(output.Request),
		NextSteps:       output.NextSteps,
	}, "Donation request created successfully")
}

// ListRequests lists ledger entries by status.
func (h *RequestHandler) ListRequests(c echo.Context) error {
	status := c.QueryParam("status")
	requests, err := h.requestUC.ListRequests(c.Request().Context(), status)
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]DonationRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, toDonationRequestResponse(r))
	}
	if status == "" {
		status = "active"
	}

	return response.Success(c, http.StatusOK, ListRequestsResponse{
		TotalRequests: len(items),
		Requests:      items,
		StatusFilter:  status,
		LastUpdated:   h.now(),
	}, "")
}

// GetRequest returns a single ledger entry.
func (h *RequestHandler) GetRequest(c echo.Context) error {
	request, err := h.requestUC.GetRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonationRequestResponse(request), "")
}

// Respond records a donor answering a request.
func (h *RequestHandler) Respond(c echo.Context) error {
	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid response input")
	}

	accountID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}
	account, err := h.accountUC.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}
	if account.DonorID == "" {
		return response.Forbidden(c, "NO_DONOR_RECORD", "Account has no donor record")
	}
	if req.DonorID != "" && req.DonorID != account.DonorID {
		return response.Forbidden(c, "DONOR_MISMATCH", "Cannot respond on behalf of another donor")
	}

	request, err := h.requestUC.RespondToRequest(c.Request().Context(), &usecase.RespondToRequestInput{
		RequestID: c.Param("id"),
		DonorID:   account.DonorID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonationRequestResponse(request), "Response recorded")
}

// Close marks a request as closed.
func (h *RequestHandler) Close(c echo.Context) error {
	request, err := h.requestUC.CloseRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonationRequestResponse(request), "Request closed")
}
