// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware and consumed by services. Keeping this
// package free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	subject := requestcontext.Subject(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithSubject(ctx, citizenID, domain.RoleAdmin)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"nammasev/pkg/domain"
)

type (
	subjectKey     struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
)

// Subject retrieves the authenticated subject ID from the context. Returns
// the zero value (nil UUID) if not set.
func Subject(ctx context.Context) domain.CitizenID {
	if subject, ok := ctx.Value(subjectKey{}).(domain.CitizenID); ok {
		return subject
	}
	return domain.CitizenID{}
}

// Role retrieves the authenticated role from the context. Empty when no
// identity was asserted (unauthenticated public paths).
func Role(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(roleKey{}).(domain.Role); ok {
		return role
	}
	return ""
}

// WithSubject injects the asserted identity into the context.
func WithSubject(ctx context.Context, subject domain.CitizenID, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, subjectKey{}, subject)
	return context.WithValue(ctx, roleKey{}, role)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, tests that don't care).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
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

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}
