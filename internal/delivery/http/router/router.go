// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"thalassist/internal/delivery/http/middleware"
	"thalassist/internal/delivery/http/router/handler"
	"thalassist/internal/domain/entity"
	"thalassist/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	DonorHandler   *handler.DonorHandler
	MatchHandler   *handler.MatchHandler
	RequestHandler *handler.RequestHandler
	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
}

// router holds all the handlers that need to be registered.
type router struct {
	donorHandler   *handler.DonorHandler
	matchHandler   *handler.MatchHandler
	requestHandler *handler.RequestHandler
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		donorHandler:   params.DonorHandler,
		matchHandler:   params.MatchHandler,
		requestHandler: params.RequestHandler,
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.authMiddleware.Authenticate

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))

	// Public matching and registration
	e.GET("/donor-match", r.matchHandler.FindDonors)
	e.POST("/donor-register", r.donorHandler.RegisterDonor)

	// Donor registry
	donorsGroup := e.Group("/donors")
	{
		donorsGroup.GET("/stats", r.matchHandler.Stats)
		donorsGroup.GET("/:id", r.donorHandler.GetDonor)
		donorsGroup.GET("/:id/card.png", r.donorHandler.DonorCard)

		donorsGroup.GET("", r.donorHandler.ListDonors, auth)
		donorsGroup.GET("/export.xlsx", r.donorHandler.ExportDonors, auth)
		donorsGroup.POST("/:id/donations", r.donorHandler.RecordDonation, auth)
		donorsGroup.POST("/:id/verify", r.donorHandler.VerifyDonor, auth)
		donorsGroup.PUT("/:id/availability", r.donorHandler.SetAvailability, auth)
	}

	// Donation request ledger
	requestsGroup := e.Group("/donation-requests")
	{
		requestsGroup.POST("", r.requestHandler.CreateRequest)
		requestsGroup.GET("", r.requestHandler.ListRequests)
		requestsGroup.GET("/:id", r.requestHandler.GetRequest)
		requestsGroup.POST("/:id/responses", r.requestHandler.Respond, auth, r.authMiddleware.RequireRole(entity.RoleDonor.String()))
		requestsGroup.POST("/:id/close", r.requestHandler.Close, auth)
	}

	// Account routes
	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.Refresh)
		authGroup.GET("/me", r.accountHandler.Me, auth)
		authGroup.POST("/logout", r.accountHandler.Logout, auth)
	}
}
