package handler

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/export"
	"thalassist/internal/infra/metrics"
	"thalassist/internal/infra/persistence/memory"
	"thalassist/internal/infra/qrcode"
	"thalassist/internal/util"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestDonorHandler(repo repository.DonorRepository) *DonorHandler {
	return NewDonorHandler(DonorHandlerParams{
		DonorUC:  newDonorUsecase(repo),
		QRCode:   qrcode.NewQRCodeService(128, "M"),
		Exporter: export.NewExcelExporter(),
		Logger:   newDiscardLogger(),
	})
}

func newInstrumentedDonorHandler(repo repository.DonorRepository) (*DonorHandler, *metrics.Metrics) {
	m := metrics.New()

	return NewDonorHandler(DonorHandlerParams{
		DonorUC:  metrics.InstrumentDonors(newDonorUsecase(repo), m),
		QRCode:   qrcode.NewQRCodeService(128, "M"),
		Exporter: export.NewExcelExporter(),
		Logger:   newDiscardLogger(),
	}), m
}

func TestDonorHandler_RegisterDonor(t *testing.T) {
	e := newTestEcho()
	h, m := newInstrumentedDonorHandler(memory.NewDonorRepository())

	rec := call(t, e, h.RegisterDonor, http.MethodPost, "/donor-register", map[string]any{
		"name":        "Kavya Iyer",
		"blood_group": "o-ve",
		"location":    "Chennai, Tamil Nadu",
		"phone":       "+91-9000000001",
		"email":       "kavya@example.com",
		"age":         29,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env, data := decode[RegisterDonorResponse](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Donor registered successfully", env.Message)
	assert.Equal(t, "D001", data.DonorID)
	assert.Equal(t, "O-", data.DonorInfo.BloodGroup)
	assert.Equal(t, "available", data.DonorInfo.Status)
	assert.False(t, data.DonorInfo.Verified)
	assert.Nil(t, data.DonorInfo.LastDonation)
	assert.NotEmpty(t, data.NextSteps)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DonorsRegistered))
}

func TestDonorHandler_RegisterDonor_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantCode    string
		wantDetails string
	}{
		{
			name:        "missing required fields",
			body:        map[string]any{"name": "Kavya Iyer"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: "missing required fields: blood_group, location, phone",
		},
		{
			name:        "unknown blood group",
			body:        map[string]any{"name": "Kavya", "blood_group": "C+", "location": "Chennai", "phone": "1"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_BLOOD_TYPE",
			wantDetails: "C+",
		},
		{
			name:        "invalid email",
			body:        map[string]any{"name": "Kavya", "blood_group": "A+", "location": "Chennai", "phone": "1", "email": "kavya"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: "email must be a valid email address",
		},
		{
			name:       "malformed date",
			body:       `{"name":"Kavya","blood_group":"A+","location":"Chennai","phone":"1","last_donation":"15/01/2024"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "future last donation",
			body: map[string]any{
				"name": "Kavya", "blood_group": "A+", "location": "Chennai", "phone": "1",
				"last_donation": time.Now().AddDate(0, 0, 3).Format(DateLayout),
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: "last_donation cannot be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			h, m := newInstrumentedDonorHandler(memory.NewDonorRepository())

			rec := call(t, e, h.RegisterDonor, http.MethodPost, "/donor-register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env, _ := decode[any](t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			if tt.wantDetails != "" {
				assert.Equal(t, tt.wantDetails, env.Error.Details)
			}
			assert.Zero(t, testutil.ToFloat64(m.DonorsRegistered))
		})
	}
}

func TestDonorHandler_GetDonor(t *testing.T) {
	e := newTestEcho()
	h := newTestDonorHandler(seededDonorRepo(t))

	rec := call(t, e, h.GetDonor, http.MethodGet, "/donors/D003", nil, "id", "D003")
	require.Equal(t, http.StatusOK, rec.Code)
	_, donor := decode[DonorResponse](t, rec)
	assert.Equal(t, "Mohammed Ali", donor.Name)
	assert.Equal(t, "B-", donor.BloodGroup)
	assert.Equal(t, "not_available", donor.Status)
	require.NotNil(t, donor.LastDonation)
	assert.Equal(t, "2024-02-01", *donor.LastDonation)
	assert.Equal(t, "2024-05-01", donor.EligibleDate)

	rec = call(t, e, h.GetDonor, http.MethodGet, "/donors/D999", nil, "id", "D999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env, _ := decode[any](t, rec)
	assert.Equal(t, "DONOR_NOT_FOUND", env.Error.Code)
}

func TestDonorHandler_ListDonors(t *testing.T) {
	e := newTestEcho()
	h := newTestDonorHandler(seededDonorRepo(t))

	rec := call(t, e, h.ListDonors, http.MethodGet, "/donors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decode[struct {
		Total  int             `json:"total"`
		Donors []DonorResponse `json:"donors"`
	}](t, rec)
	assert.Equal(t, 5, data.Total)
	require.Len(t, data.Donors, 5)
	for i, id := range []string{"D001", "D002", "D003", "D004", "D005"} {
		assert.Equal(t, id, data.Donors[i].ID)
	}
}

func TestDonorHandler_RecordDonation(t *testing.T) {
	e := newTestEcho()
	h, m := newInstrumentedDonorHandler(seededDonorRepo(t))
	today := time.Now().Format(DateLayout)

	rec := call(t, e, h.RecordDonation, http.MethodPost, "/donors/D004/donations", nil, "id", "D004")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, donor := decode[DonorResponse](t, rec)
	assert.Equal(t, 3, donor.DonationCount)
	assert.Equal(t, "not_available", donor.Status)
	require.NotNil(t, donor.LastDonation)
	assert.Equal(t, today, *donor.LastDonation)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DonationsRecorded))

	rec = call(t, e, h.RecordDonation, http.MethodPost, "/donors/D004/donations",
		map[string]string{"date": "2024-06-10"}, "id", "D004")
	require.Equal(t, http.StatusOK, rec.Code)
	_, donor = decode[DonorResponse](t, rec)
	assert.Equal(t, "2024-06-10", *donor.LastDonation)
	assert.Equal(t, "2024-09-08", donor.EligibleDate)

	rec = call(t, e, h.RecordDonation, http.MethodPost, "/donors/D404/donations", nil, "id", "D404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDonorHandler_VerifyAndAvailability(t *testing.T) {
	e := newTestEcho()
	h := newTestDonorHandler(memory.NewDonorRepository())

	rec := call(t, e, h.RegisterDonor, http.MethodPost, "/donor-register", map[string]any{
		"name": "Kavya", "blood_group": "A+", "location": "Pune", "phone": "1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, e, h.VerifyDonor, http.MethodPost, "/donors/D001/verify", nil, "id", "D001")
	require.Equal(t, http.StatusOK, rec.Code)
	_, donor := decode[DonorResponse](t, rec)
	assert.True(t, donor.Verified)

	rec = call(t, e, h.SetAvailability, http.MethodPut, "/donors/D001/availability", map[string]any{}, "id", "D001")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env, _ := decode[any](t, rec)
	assert.Equal(t, "available is required", env.Error.Details)

	rec = call(t, e, h.SetAvailability, http.MethodPut, "/donors/D001/availability",
		map[string]any{"available": false}, "id", "D001")
	require.Equal(t, http.StatusOK, rec.Code)
	_, donor = decode[DonorResponse](t, rec)
	assert.Equal(t, "not_available", donor.Status)

	rec = call(t, e, h.SetAvailability, http.MethodPut, "/donors/D001/availability",
		map[string]any{"available": true}, "id", "D001")
	require.Equal(t, http.StatusOK, rec.Code)
	_, donor = decode[DonorResponse](t, rec)
	assert.Equal(t, "available", donor.Status)
}

func TestDonorHandler_DonorCard(t *testing.T) {
	e := newTestEcho()
	h := newTestDonorHandler(seededDonorRepo(t))

	rec := call(t, e, h.DonorCard, http.MethodGet, "/donors/D005/card.png", nil, "id", "D005")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = call(t, e, h.DonorCard, http.MethodGet, "/donors/D404/card.png", nil, "id", "D404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDonorHandler_ExportDonors(t *testing.T) {
	e := newTestEcho()
	h := newTestDonorHandler(seededDonorRepo(t))
	h.now = func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }

	rec := call(t, e, h.ExportDonors, http.MethodGet, "/donors/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="donors-20240301.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, util.ETag(rec.Body.Bytes()), rec.Header().Get("ETag"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.DonorSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
	assert.Equal(t, "D001", rows[1][0])
}
