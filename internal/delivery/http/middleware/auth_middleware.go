package middleware

import (
	"log/slog"
	"slices"
	"strings"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/delivery/http/response"
	domainerrors "thalassist/internal/domain/errors"
	"thalassist/internal/domain/repository"
	"thalassist/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Keys under which Authenticate stores the caller on echo.Context.
const (
	ContextKeyUserID = "userID"
	ContextKeyRoles  = "roles"
	ContextKeyClaims = "claims"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService   service.TokenService
	RevocationList repository.TokenRevocationList
	Logger         *slog.Logger
}

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc   service.TokenService
	revocation repository.TokenRevocationList
	logger     *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:   params.TokenService,
		revocation: params.RevocationList,
		logger:     params.Logger,
	}
}

// Authenticate validates the bearer access token and rejects revoked ones.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString, service.TokenTypeAccess)
		if err != nil {
			return response.Unauthorized(c, "TOKEN_INVALID", "Invalid or expired token")
		}

		ctx := c.Request().Context()
		revoked, err := m.revocation.IsRevoked(ctx, claims.ID)
		if err != nil {
			deliverycontext.LoggerFrom(ctx, m.logger).Error("Failed to check token revocation",
				slog.Any("error", err),
				slog.String("jti", claims.ID),
			)

			return response.FromAppError(c, domainerrors.ErrInternalError)
		}
		if revoked {
			return response.Unauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRoles, claims.Roles)
		c.Set(ContextKeyClaims, claims)

		ctx = deliverycontext.WithAccountID(ctx, claims.UserID)
		ctx = deliverycontext.Annotate(ctx, m.logger, slog.String("account_id", claims.UserID.String()))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the user has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(ContextKeyRoles).([]string)
			if !ok {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: role information missing")
			}

			if !slices.Contains(roles, requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole+"' role")
			}

			return next(c)
		}
	}
}

// GetUserID returns the authenticated account id.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

// GetClaims returns the validated access token claims.
func GetClaims(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*service.Claims)

	return claims, ok && claims != nil
}
