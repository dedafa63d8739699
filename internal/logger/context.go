package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Field keys shared by every request-scoped log line.
const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyGigID     = "gig_id"
)

// RequestID tags a line with the X-Request-ID of the request.
func RequestID(id string) zap.Field { return zap.String(KeyRequestID, id) }

// UserID tags a line with a user.
func UserID(id uint) zap.Field { return zap.Uint(KeyUserID, id) }

// GigID tags a line with a gig.
func GigID(id uint) zap.Field { return zap.Uint(KeyGigID, id) }

// ContextWithLogger stores l in ctx.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Lookup returns the logger stored in ctx, if any.
func Lookup(ctx context.Context) (*zap.Logger, bool) {
	l, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	return l, ok
}

// FromContext returns the request logger, or the global one (zap.L) outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := Lookup(ctx); ok {
		return l
	}
	return zap.L()
}

// With returns a context whose logger carries extra fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}

// ForRequest derives the per-request logger from base. An empty requestID adds no field.
func ForRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base
	if requestID != "" {
		l = base.With(RequestID(requestID))
	}
	return ContextWithLogger(ctx, l), l
}
