// Package college manages colleges and the ANOs assigned to them.
package college

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type College struct {
	ID        kernel.CollegeID `json:"id"`
	Name      string           `json:"name"`
	UnitID    kernel.UnitID    `json:"unit_id"`
	ANOs      []kernel.UserID  `json:"anos"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (c *College) HasANO(id kernel.UserID) bool {
	return slices.Contains(c.ANOs, id)
}

type CollegeRequest struct {
	Name   string          `json:"name" validate:"required"`
	UnitID kernel.UnitID   `json:"unit_id" validate:"required"`
	ANOs   []kernel.UserID `json:"anos" validate:"min=1,dive,required"`
}

// Normalize trims the name and removes blank or repeated ANO ids
func (r *CollegeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	seen := make(map[kernel.UserID]bool, len(r.ANOs))
	anos := make([]kernel.UserID, 0, len(r.ANOs))
	for _, id := range r.ANOs {
		id = kernel.UserID(strings.TrimSpace(id.String()))
		if id.IsEmpty() || seen[id] {
			continue
		}
		seen[id] = true
		anos = append(anos, id)
	}
	r.ANOs = anos
}

var ErrRegistry = errx.NewRegistry("COLLEGE")

var (
	CodeCollegeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "College not found")
	CodeNoCollegeForANO = ErrRegistry.Register("NO_COLLEGE_FOR_ANO", errx.TypeNotFound, http.StatusNotFound, "No college is assigned to this ANO")
)

func ErrCollegeNotFound() *errx.Error {
	return ErrRegistry.New(CodeCollegeNotFound)
}

func ErrNoCollegeForANO() *errx.Error {
	return ErrRegistry.New(CodeNoCollegeForANO)
}
