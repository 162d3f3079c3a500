// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, handlers and services read
// them, and tests inject them without running the middleware chain.
package requestcontext

import (
	"context"
	"time"

	"glimpse/internal/session"
)

// Context key types (unexported for encapsulation).
type (
	sessionKey   struct{}
	requestIDKey struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	timeKey      struct{}
)

// Session retrieves the verified session view from the context. Returns nil
// when the request is unauthenticated.
func Session(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey{}).(*session.Session); ok {
		return s
	}
	return nil
}

// WithSession injects a verified session view into the context.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// Now retrieves the request-scoped time. Falls back to the wall clock when
// the middleware did not run.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a request-scoped time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the full middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}
