package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

// User is an account that can sign in to the portal
type User struct {
	ID           kernel.UserID `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         iam.Role      `json:"role"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NormalizeEmail trims and lowercases an address the way it is stored
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether q appears in the name, email or role, ignoring case
func (u *User) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(string(u.Role), q)
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		RoleName:  u.Role.DisplayName(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ============================================================================
// DTOs
// ============================================================================

type UserDTO struct {
	ID        kernel.UserID `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      iam.Role      `json:"role"`
	RoleName  string        `json:"role_name"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     iam.Role `json:"role" validate:"required,oneof=ano clerk co"`
}

type UpdateUserRequest struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email"`
	Role     *iam.Role `json:"role,omitempty" validate:"omitempty,oneof=ano clerk co"`
	Password *string   `json:"password,omitempty" validate:"omitempty,min=6"`
}

type ListFilter struct {
	Query        string
	Role         iam.Role
	IncludeAdmin bool
}

type UserListResponse struct {
	Users []UserDTO `json:"users"`
	Total int       `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailTaken     = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "Email is already registered")
	CodeAdminProtected = ErrRegistry.Register("ADMIN_PROTECTED", errx.TypeForbidden, http.StatusForbidden, "Administrator accounts are managed from the CLI")
	CodeWrongRole      = ErrRegistry.Register("WRONG_ROLE", errx.TypeBusiness, http.StatusUnprocessableEntity, "User does not hold the required role")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailTaken() *errx.Error {
	return ErrRegistry.New(CodeEmailTaken)
}

func ErrAdminProtected() *errx.Error {
	return ErrRegistry.New(CodeAdminProtected)
}

func ErrWrongRole() *errx.Error {
	return ErrRegistry.New(CodeWrongRole)
}
