// Package handler contains the HTTP handlers for the application.
package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/delivery/http/response"
	"thalassist/internal/domain/service"
	"thalassist/internal/errors"
	"thalassist/internal/usecase"
	"thalassist/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DonorHandlerParams holds dependencies for DonorHandler, injected by Fx.
type DonorHandlerParams struct {
	fx.In

	DonorUC  usecase.DonorUsecase
	QRCode   service.QRCodeService
	Exporter service.DonorExporter
	Logger   *slog.Logger
}

// DonorHandler serves the donor registry.
type DonorHandler struct {
	donorUC  usecase.DonorUsecase
	qrCode   service.QRCodeService
	exporter service.DonorExporter
	logger   *slog.Logger
	now      func() time.Time
}

// NewDonorHandler is the constructor for DonorHandler.
func NewDonorHandler(params DonorHandlerParams) *DonorHandler {
	return &DonorHandler{
		donorUC:  params.DonorUC,
		qrCode:   params.QRCode,
		exporter: params.Exporter,
		logger:   params.Logger,
		now:      time.Now,
	}
}

// RegisterDonorRequest is the body of POST /donor-register.
// Required fields are checked by the registry so the error lists all of them at once.
type RegisterDonorRequest struct {
	Name              string   `json:"name"`
	BloodGroup        string   `json:"blood_group"`
	Location          string   `json:"location"`
	Phone             string   `json:"phone"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Age               *int     `json:"age" validate:"omitempty,gte=18,lte=65"`
	Weight            *float64 `json:"weight" validate:"omitempty,gt=0"`
	LastDonation      *Date    `json:"last_donation"`
	MedicalConditions string   `json:"medical_conditions"`
}

// RegisterDonorResponse confirms a registration.
type RegisterDonorResponse struct {
	DonorID   string        `json:"donor_id"`
	NextSteps []string      `json:"next_steps"`
	DonorInfo DonorResponse `json:"donor_info"`
}

// RecordDonationRequest is the body of POST /donors/:id/donations. An absent date means today.
type RecordDonationRequest struct {
	Date *Date `json:"date"`
}

// SetAvailabilityRequest is the body of PUT /donors/:id/availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// RegisterDonor handles donor sign-up.
func (h *DonorHandler) RegisterDonor(c echo.Context) error {
	var req RegisterDonorRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donor registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.donorUC.RegisterDonor(c.Request().Context(), &usecase.RegisterDonorInput{
		Name:              req.Name,
		BloodGroup:        req.BloodGroup,
		Location:          req.Location,
		Phone:             req.Phone,
		Email:             req.Email,
		Age:               req.Age,
		Weight:            req.Weight,
		LastDonation:      req.LastDonation.ptr(),
		MedicalConditions: req.MedicalConditions,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, RegisterDonorResponse{
		DonorID:   output.Donor.ID,
		NextSteps: output.NextSteps,
		DonorInfo: toDonorResponse(output.Donor),
	}, "Donor registered successfully")
}

// GetDonor returns a single donor.
func (h *DonorHandler) GetDonor(c echo.Context) error {
	donor, err := h.donorUC.GetDonor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonorResponse(donor), "")
}

// ListDonors returns the registry in insertion order.
func (h *DonorHandler) ListDonors(c echo.Context) error {
	donors, err := h.donorUC.ListDonors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"total":  len(donors),
		"donors": toDonorResponses(donors),
	}, "")
}

// RecordDonation records a completed donation.
func (h *DonorHandler) RecordDonation(c echo.Context) error {
	var req RecordDonationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donation input")
	}

	input := &usecase.RecordDonationInput{DonorID: c.Param("id")}
	if date := req.Date.ptr(); date != nil {
		input.Date = *date
	}

	donor, err := h.donorUC.RecordDonation(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonorResponse(donor), "Donation recorded")
}

// VerifyDonor marks a donor as verified.
func (h *DonorHandler) VerifyDonor(c echo.Context) error {
	donor, err := h.donorUC.VerifyDonor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonorResponse(donor), "Donor verified")
}

// SetAvailability places or releases a hold on a donor.
func (h *DonorHandler) SetAvailability(c echo.Context) error {
	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid availability input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	donor, err := h.donorUC.SetAvailability(c.Request().Context(), &usecase.SetAvailabilityInput{
		DonorID:   c.Param("id"),
		Available: *req.Available,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonorResponse(donor), "Availability updated")
}

// DonorCard renders the donor's QR card as a PNG.
func (h *DonorHandler) DonorCard(c echo.Context) error {
	donor, err := h.donorUC.GetDonor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	png, err := h.qrCode.GenerateDonorCardQR(donor.ID, donor.BloodType.String())
	if err != nil {
		return errors.Wrap(err, "failed to render donor card")
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ExportDonors streams the registry as an Excel workbook.
func (h *DonorHandler) ExportDonors(c echo.Context) error {
	ctx := c.Request().Context()
	donors, err := h.donorUC.ListDonors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	// Buffer the workbook so a failed export still gets an error envelope.
	var buf bytes.Buffer
	if err := h.exporter.ExportDonors(ctx, &buf, donors, h.now()); err != nil {
		return errors.Wrap(err, "failed to export donors")
	}

	deliverycontext.LoggerFrom(ctx, h.logger).Info("Donor registry exported",
		slog.Int("donors", len(donors)),
		slog.String("size", util.FormatBytes(int64(buf.Len()))),
	)

	filename := "donors-" + h.now().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set("ETag", util.ETag(buf.Bytes()))

	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
