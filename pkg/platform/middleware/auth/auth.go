// Package auth gates routes on the identity asserted by the upstream
// identity provider. The provider issues signed tokens carrying a subject
// and a role; this middleware validates the token shape and injects the
// claims into the request context. It never issues or re-validates
// credentials beyond the token itself.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"nammasev/pkg/domain"
	request "nammasev/pkg/platform/middleware/request"
	"nammasev/pkg/requestcontext"
)

// Claims is the identity the provider asserts per call.
type Claims struct {
	Subject domain.CitizenID
	Role    domain.Role
}

// TokenValidator validates an upstream-issued bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and injects the
// asserted subject and role into the context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithSubject(ctx, claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose asserted role does not
// match. Apply after RequireAuth.
func RequireRole(role domain.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Role(ctx) != role {
				logger.WarnContext(ctx, "forbidden - role mismatch",
					"required_role", string(role),
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Insufficient role for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
