// Package selection carries cadet submissions through college-level review,
// finalisation and institute-level selection.
package selection

import (
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusFinalized Status = "finalized"
)

type CadetStatus string

const (
	CadetSelected    CadetStatus = "selected"
	CadetReserve     CadetStatus = "reserve"
	CadetNotSelected CadetStatus = "not-selected"
)

func (s CadetStatus) IsValid() bool {
	switch s {
	case CadetSelected, CadetReserve, CadetNotSelected:
		return true
	}
	return false
}

// Notifies reports whether moving to s warrants a message to the cadet
func (s CadetStatus) Notifies() bool {
	return s == CadetSelected || s == CadetReserve
}

type Cadet struct {
	Name           string `json:"name" validate:"required"`
	Rank           string `json:"rank" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	WhatsAppNumber string `json:"whatsapp_number" validate:"required"`
}

func (c *Cadet) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Rank = strings.TrimSpace(c.Rank)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.WhatsAppNumber = strings.TrimSpace(c.WhatsAppNumber)
}

// NormalizeCadets trims every cadet and drops repeated emails, keeping the first
func NormalizeCadets(in []Cadet) []Cadet {
	seen := make(map[string]bool, len(in))
	out := make([]Cadet, 0, len(in))
	for _, c := range in {
		c.normalize()
		if seen[c.Email] {
			continue
		}
		seen[c.Email] = true
		out = append(out, c)
	}
	return out
}

type Decision struct {
	CadetIndex int           `json:"cadet_index"`
	Status     CadetStatus   `json:"status"`
	ReviewedBy kernel.UserID `json:"reviewed_by"`
	ReviewedAt time.Time     `json:"reviewed_at"`
}

type Document struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Submission struct {
	ID             kernel.SubmissionID `json:"id"`
	CampID         kernel.CampID       `json:"camp_id"`
	CampTitle      string              `json:"camp_title"`
	CollegeID      kernel.CollegeID    `json:"college_id"`
	CollegeName    string              `json:"college_name"`
	ANOID          kernel.UserID       `json:"ano_id"`
	ANOName        string              `json:"ano_name"`
	Cadets         []Cadet             `json:"cadets"`
	Decisions      []Decision          `json:"decisions"`
	InstitutePicks []string            `json:"institute_picks"`
	Documents      []Document          `json:"documents"`
	Status         Status              `json:"status"`
	SubmittedAt    time.Time           `json:"submitted_at"`
	ReviewedAt     *time.Time          `json:"reviewed_at,omitempty"`
	FinalizedAt    *time.Time          `json:"finalized_at,omitempty"`
	FinalizedBy    kernel.UserID       `json:"finalized_by,omitempty"`
	Version        int                 `json:"version"`
}

func (s *Submission) IsFinalized() bool {
	return s.Status == StatusFinalized
}

// DecisionFor returns the recorded status of a cadet, not-selected when none
func (s *Submission) DecisionFor(index int) CadetStatus {
	for _, d := range s.Decisions {
		if d.CadetIndex == index {
			return d.Status
		}
	}
	return CadetNotSelected
}

// Decide records a decision, replacing any earlier one for the cadet, and
// moves a pending submission to reviewed. It returns the previous status.
func (s *Submission) Decide(index int, status CadetStatus, by kernel.UserID, at time.Time) CadetStatus {
	prev := s.DecisionFor(index)
	d := Decision{CadetIndex: index, Status: status, ReviewedBy: by, ReviewedAt: at}

	i := slices.IndexFunc(s.Decisions, func(d Decision) bool { return d.CadetIndex == index })
	if i >= 0 {
		s.Decisions[i] = d
	} else {
		s.Decisions = append(s.Decisions, d)
	}

	if s.Status == StatusPending {
		s.Status = StatusReviewed
	}
	s.ReviewedAt = &at
	return prev
}

// CadetsWith returns the cadets whose decision is status, in roster order
func (s *Submission) CadetsWith(status CadetStatus) []Cadet {
	var out []Cadet
	for i, c := range s.Cadets {
		if s.DecisionFor(i) == status {
			out = append(out, c)
		}
	}
	return out
}

func (s *Submission) CadetByEmail(email string) (Cadet, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range s.Cadets {
		if c.Email == email {
			return c, true
		}
	}
	return Cadet{}, false
}

// Matches searches the college name and cadet names
func (s *Submission) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.CollegeName), q) {
		return true
	}
	for _, c := range s.Cadets {
		if strings.Contains(strings.ToLower(c.Name), q) {
			return true
		}
	}
	return false
}

// SelectedCadet is a cadet locked into a finalized selection
type SelectedCadet struct {
	Cadet
	Status      CadetStatus `json:"status"`
	CollegeName string      `json:"college_name"`
}

type FinalizedSelection struct {
	ID           string              `json:"id"`
	CampID       kernel.CampID       `json:"camp_id"`
	CampTitle    string              `json:"camp_title"`
	CollegeName  string              `json:"college_name"`
	SubmissionID kernel.SubmissionID `json:"submission_id"`
	Selected     []SelectedCadet     `json:"selected_cadets"`
	Reserve      []SelectedCadet     `json:"reserve_cadets"`
	FinalizedAt  time.Time           `json:"finalized_at"`
	FinalizedBy  kernel.UserID       `json:"finalized_by"`
	ReviewerName string              `json:"reviewer_name"`
}

func (f *FinalizedSelection) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(f.CampTitle), q) || strings.Contains(strings.ToLower(f.CollegeName), q) {
		return true
	}
	for _, c := range append(slices.Clone(f.Selected), f.Reserve...) {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			return true
		}
	}
	return false
}

// NewFinalizedSelection builds the locked-in result of a finalized
// submission. ok is false when no cadet was selected or reserved.
func NewFinalizedSelection(s *Submission, reviewerName string) (f FinalizedSelection, ok bool) {
	lock := func(status CadetStatus) []SelectedCadet {
		out := []SelectedCadet{}
		for _, c := range s.CadetsWith(status) {
			out = append(out, SelectedCadet{Cadet: c, Status: status, CollegeName: s.CollegeName})
		}
		return out
	}

	f = FinalizedSelection{
		ID:           kernel.NewID[string](),
		CampID:       s.CampID,
		CampTitle:    s.CampTitle,
		CollegeName:  s.CollegeName,
		SubmissionID: s.ID,
		Selected:     lock(CadetSelected),
		Reserve:      lock(CadetReserve),
		FinalizedBy:  s.FinalizedBy,
		ReviewerName: reviewerName,
	}
	if s.FinalizedAt != nil {
		f.FinalizedAt = *s.FinalizedAt
	}
	return f, len(f.Selected)+len(f.Reserve) > 0
}

const InstituteLevel = "institute-level"

type InstituteCadet struct {
	Cadet
	CollegeName  string              `json:"college_name"`
	CampID       kernel.CampID       `json:"camp_id"`
	CampTitle    string              `json:"camp_title"`
	SubmissionID kernel.SubmissionID `json:"submission_id"`
}

type InstituteSelection struct {
	ID               string           `json:"id"`
	Selected         []InstituteCadet `json:"selected_cadets"`
	SelectionDate    time.Time        `json:"selection_date"`
	Status           string           `json:"status"`
	TotalSelected    int              `json:"total_selected"`
	CampBreakdown    map[string]int   `json:"camp_breakdown"`
	CollegeBreakdown map[string]int   `json:"college_breakdown"`
	CreatedBy        kernel.UserID    `json:"created_by"`
}

// NewInstituteSelection aggregates picked cadets with per-camp and per-college counts
func NewInstituteSelection(cadets []InstituteCadet, by kernel.UserID, at time.Time) InstituteSelection {
	is := InstituteSelection{
		ID:               kernel.NewID[string](),
		Selected:         cadets,
		SelectionDate:    at,
		Status:           InstituteLevel,
		TotalSelected:    len(cadets),
		CampBreakdown:    map[string]int{},
		CollegeBreakdown: map[string]int{},
		CreatedBy:        by,
	}
	for _, c := range cadets {
		is.CampBreakdown[c.CampTitle]++
		is.CollegeBreakdown[c.CollegeName]++
	}
	return is
}
