// Package camp manages camp notifications and their per-college vacancies.
package camp

import (
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusClosed},
	StatusPublished: {StatusClosed},
}

// CanTransition reports whether a camp may move from s to next.
// Keeping the same status is always allowed; closed is terminal.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Audience string

const (
	AudienceANO    Audience = "ano"
	AudienceCadets Audience = "cadets"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type CampNotification struct {
	ID             kernel.CampID            `json:"id"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	ReportingDate  string                   `json:"reporting_date"`
	ReportingTime  string                   `json:"reporting_time"`
	Venue          string                   `json:"venue"`
	Vacancies      map[kernel.CollegeID]int `json:"vacancies"`
	OfficialLetter string                   `json:"official_letter,omitempty"`
	SendTo         Audience                 `json:"send_to"`
	CreatedBy      string                   `json:"created_by"`
	Status         Status                   `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// VacancyFor returns the seats allotted to a college
func (c *CampNotification) VacancyFor(id kernel.CollegeID) int {
	return c.Vacancies[id]
}

func (c *CampNotification) TotalVacancies() int {
	total := 0
	for _, v := range c.Vacancies {
		total += v
	}
	return total
}

// AllottedColleges returns the colleges with at least one seat
func (c *CampNotification) AllottedColleges() []kernel.CollegeID {
	var out []kernel.CollegeID
	for id, v := range c.Vacancies {
		if v > 0 {
			out = append(out, id)
		}
	}
	return out
}

// ReportingDay parses the reporting date
func (c *CampNotification) ReportingDay() (time.Time, error) {
	return time.Parse(DateLayout, c.ReportingDate)
}

func (c *CampNotification) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Venue), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

type CampRequest struct {
	Title         string                   `json:"title" validate:"required"`
	Description   string                   `json:"description"`
	ReportingDate string                   `json:"reporting_date" validate:"required,datetime=2006-01-02"`
	ReportingTime string                   `json:"reporting_time" validate:"required,datetime=15:04"`
	Venue         string                   `json:"venue" validate:"required"`
	Vacancies     map[kernel.CollegeID]int `json:"vacancies"`
	SendTo        Audience                 `json:"send_to" validate:"omitempty,oneof=ano cadets"`
	Status        Status                   `json:"status" validate:"omitempty,oneof=draft published closed"`
}

// Normalize trims text fields and applies the create defaults
func (r *CampRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ReportingDate = strings.TrimSpace(r.ReportingDate)
	r.ReportingTime = strings.TrimSpace(r.ReportingTime)
	r.Venue = strings.TrimSpace(r.Venue)
	if r.SendTo == "" {
		r.SendTo = AudienceANO
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
}

// CheckVacancies rejects negative counts and requires one allotted college
func (r *CampRequest) CheckVacancies() error {
	cleaned := make(map[kernel.CollegeID]int, len(r.Vacancies))
	for id, v := range r.Vacancies {
		if v < 0 {
			return ErrInvalidVacancy().WithDetail("college_id", id).WithDetail("vacancy", v)
		}
		if v > 0 {
			cleaned[id] = v
		}
	}
	if len(cleaned) == 0 {
		return ErrNoVacancy()
	}
	r.Vacancies = cleaned
	return nil
}

// Letter is an official letter upload
type Letter struct {
	Name        string
	ContentType string
	Data        []byte
}

const MaxLetterSize = 5 * 1024 * 1024

var letterTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

func (l *Letter) Check() error {
	if !letterTypes[l.ContentType] {
		return ErrLetterType().WithDetail("content_type", l.ContentType)
	}
	if len(l.Data) > MaxLetterSize {
		return ErrLetterTooLarge().WithDetail("size", len(l.Data))
	}
	return nil
}

type ListFilter struct {
	Query  string
	Status Status
}

// BroadcastResult summarises an outbound camp announcement
type BroadcastResult struct {
	Success bool                `json:"success"`
	Sent    int                 `json:"sent"`
	Failed  int                 `json:"failed"`
	Total   int                 `json:"total"`
	Results []notifx.SendResult `json:"results,omitempty"`
	// JobID is set when delivery was queued instead of sent inline
	JobID string `json:"job_id,omitempty"`
}

type CreateCampResponse struct {
	Camp           *CampNotification `json:"camp"`
	Broadcast      *BroadcastResult  `json:"broadcast,omitempty"`
	BroadcastError string            `json:"broadcast_error,omitempty"`
}

// CollegeCamp is one camp as seen by a college
type CollegeCamp struct {
	*CampNotification
	Vacancy int `json:"vacancy"`
}

type CollegeVacancies struct {
	Camps          []CollegeCamp `json:"camps"`
	TotalVacancies int           `json:"total_vacancies"`
	Published      int           `json:"published"`
}
