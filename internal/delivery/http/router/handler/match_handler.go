package handler

import (
	"net/http"
	"time"

	"thalassist/internal/delivery/http/response"
	"thalassist/internal/errors"
	"thalassist/internal/infra/metrics"
	"thalassist/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MatchHandlerParams holds dependencies for MatchHandler, injected by Fx.
type MatchHandlerParams struct {
	fx.In

	MatchUC usecase.MatchUsecase
	StatsUC usecase.StatisticsUsecase
	Metrics *metrics.Metrics
}

// MatchHandler serves donor search and registry statistics.
type MatchHandler struct {
	matchUC usecase.MatchUsecase
	statsUC usecase.StatisticsUsecase
	metrics *metrics.Metrics
}

// NewMatchHandler is the constructor for MatchHandler.
func NewMatchHandler(params MatchHandlerParams) *MatchHandler {
	return &MatchHandler{
		matchUC: params.MatchUC,
		statsUC: params.StatsUC,
		metrics: params.Metrics,
	}
}

// FindDonors ranks registry donors for GET /donor-match.
func (h *MatchHandler) FindDonors(c echo.Context) error {
	result, err := h.matchUC.FindDonors(c.Request().Context(), &usecase.FindDonorsInput{
		BloodGroup: c.QueryParam("blood_group"),
		Location:   c.QueryParam("location"),
		Urgency:    c.QueryParam("urgency"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.metrics.DonorSearches.WithLabelValues(result.Urgency.String()).Inc()
	h.metrics.SearchMatches.Observe(float64(result.TotalFound))

	return response.Success(c, http.StatusOK, toMatchResponse(result), "")
}

// StatsResponse is the body of GET /donors/stats.
type StatsResponse struct {
	TotalDonors            int            `json:"total_donors"`
	AvailableDonors        int            `json:"available_donors"`
	VerifiedDonors         int            `json:"verified_donors"`
	BloodGroupDistribution map[string]int `json:"blood_group_distribution"`
	LocationFilter         *string        `json:"location_filter"`
	StatisticsDate         time.Time      `json:"statistics_date"`
	CoverageAreas          []string       `json:"coverage_areas"`
}

// Stats summarizes the registry, optionally filtered by location.
func (h *MatchHandler) Stats(c echo.Context) error {
	stats, err := h.statsUC.Summarize(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return errors.WithStack(err)
	}

	distribution := make(map[string]int, len(stats.BloodTypeCounts))
	for bloodType, count := range stats.BloodTypeCounts {
		distribution[bloodType.String()] = count
	}

	resp := StatsResponse{
		TotalDonors:            stats.TotalDonors,
		AvailableDonors:        stats.AvailableDonors,
		VerifiedDonors:         stats.VerifiedDonors,
		BloodGroupDistribution: distribution,
		StatisticsDate:         stats.GeneratedAt,
		CoverageAreas:          stats.Locations,
	}
	if stats.LocationFilter != "" {
		resp.LocationFilter = &stats.LocationFilter
	}

	return response.Success(c, http.StatusOK, resp, "")
}
