// Package iam holds the roles of the camp-allocation service and the errors
// shared by authentication and authorization.
package iam

import (
	"net/http"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeInvalidToken = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeAccessDenied = ErrRegistry.Register("ACCESS_DENIED", errx.TypeForbidden, http.StatusForbidden, "Access denied")
	CodeInvalidRole  = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Invalid role")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

// Role is the single role a user holds
type Role string

const (
	RoleAdmin Role = "admin"
	RoleANO   Role = "ano"
	RoleClerk Role = "clerk"
	RoleCO    Role = "co"
)

var allRoles = []Role{RoleAdmin, RoleANO, RoleClerk, RoleCO}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	for _, v := range allRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsReviewer reports whether the role reviews and finalizes selections
func (r Role) IsReviewer() bool {
	return r == RoleClerk || r == RoleCO
}

// DisplayName is the label shown on dashboards
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleANO:
		return "Associate NCC Officer"
	case RoleClerk:
		return "Clerk"
	case RoleCO:
		return "Commanding Officer"
	default:
		return "Unknown"
	}
}

// ParseRole accepts any casing and surrounding whitespace
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole().WithDetail("role", s)
	}
	return r, nil
}
