package domain

import dErrors "nammasev/pkg/domain-errors"

// Role is the actor role asserted by the upstream identity provider. The
// service trusts this claim; it never re-validates credentials itself.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCitizen, RoleAdmin:
		return Role(s), nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid role %q", s)
	}
}
