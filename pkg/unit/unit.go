// Package unit manages NCC units: a commanding officer, a clerk and the
// colleges under them.
package unit

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type Unit struct {
	ID        kernel.UnitID `json:"id"`
	Name      string        `json:"name"`
	COID      kernel.UserID `json:"co_id"`
	ClerkID   kernel.UserID `json:"clerk_id"`
	Colleges  []string      `json:"colleges"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HasReviewer reports whether id is the unit's CO or clerk
func (u *Unit) HasReviewer(id kernel.UserID) bool {
	return u.COID == id || u.ClerkID == id
}

// CleanColleges trims names and drops the empty ones
func CleanColleges(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

type UnitRequest struct {
	Name     string        `json:"name" validate:"required"`
	COID     kernel.UserID `json:"co_id" validate:"required"`
	ClerkID  kernel.UserID `json:"clerk_id" validate:"required"`
	Colleges []string      `json:"colleges"`
}

// UnitDTO adds officer names for display
type UnitDTO struct {
	Unit
	COName    string `json:"co_name,omitempty"`
	ClerkName string `json:"clerk_name,omitempty"`
}

var ErrRegistry = errx.NewRegistry("UNIT")

var (
	CodeUnitNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Unit not found")
	CodeInvalidUnit    = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid unit")
	CodeSameOfficer    = ErrRegistry.Register("SAME_OFFICER", errx.TypeBusiness, http.StatusUnprocessableEntity, "CO and clerk must be different users")
	CodeNoReviewerUnit = ErrRegistry.Register("NO_REVIEWER_UNIT", errx.TypeNotFound, http.StatusNotFound, "No unit is assigned to this reviewer")
)

func ErrUnitNotFound() *errx.Error {
	return ErrRegistry.New(CodeUnitNotFound)
}

func ErrInvalidUnit(reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidUnit).WithDetail("reason", reason)
}

func ErrSameOfficer() *errx.Error {
	return ErrRegistry.New(CodeSameOfficer)
}

func ErrNoReviewerUnit() *errx.Error {
	return ErrRegistry.New(CodeNoReviewerUnit)
}
