package testutil

import (
	"net/http"
	"time"

	id "nammasev/pkg/domain"
	"nammasev/pkg/requestcontext"
)

// WithSubject adds an authenticated subject and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the citizenID is not a valid UUID, it will not be added to the context.
func WithSubject(req *http.Request, citizenID string, role id.Role) *http.Request {
	parsed, err := id.ParseCitizenID(citizenID)
	if err != nil {
		return req
	}
	ctx := requestcontext.WithSubject(req.Context(), parsed, role)
	return req.WithContext(ctx)
}

// WithCitizen adds an authenticated citizen subject to the request context.
func WithCitizen(req *http.Request, citizenID string) *http.Request {
	return WithSubject(req, citizenID, id.RoleCitizen)
}

// WithAdmin adds an authenticated admin subject to the request context.
func WithAdmin(req *http.Request, adminID string) *http.Request {
	return WithSubject(req, adminID, id.RoleAdmin)
}

// WithTime pins the request's logical time to a fixed instant.
func WithTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
