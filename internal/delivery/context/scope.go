// Package context carries request-scoped values from the delivery layer into
// usecases: the correlation id, the authenticated account and a logger
// already annotated with both.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the correlation header read from and echoed to clients.
const HeaderXRequestID = echo.HeaderXRequestID

// echoRequestIDKey stores the id on echo.Context for the access log.
const echoRequestIDKey = "request_id"

type scopeKey int

const (
	requestIDKey scopeKey = iota
	accountIDKey
	loggerKey
)

// SetRequestID stores the request id on echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// RequestIDOf returns the request id stored on echo.Context, or "".
func RequestIDOf(c echo.Context) string {
	id, _ := c.Get(echoRequestIDKey).(string)

	return id
}

// WithRequestID returns ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom returns the request id carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithAccountID returns ctx carrying the authenticated account.
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFrom returns the authenticated account carried by ctx.
func AccountIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)

	return id, ok
}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom returns the request-scoped logger, or fallback outside a request.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// Annotate replaces the scoped logger with one carrying attrs. Outside a
// request the fallback is annotated instead.
func Annotate(ctx context.Context, fallback *slog.Logger, attrs ...any) context.Context {
	return WithLogger(ctx, LoggerFrom(ctx, fallback).With(attrs...))
}
