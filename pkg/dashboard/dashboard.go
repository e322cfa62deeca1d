// Package dashboard summarises the system for each role's landing page.
package dashboard

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveCamps    int `json:"active_camps"`
	Colleges       int `json:"colleges"`
	PendingReviews int `json:"pending_reviews"`
}

type ReviewerStats struct {
	PendingReview  int `json:"pending_review"`
	VerifiedCadets int `json:"verified_cadets"`
	FinalizedCamps int `json:"finalized_camps"`
	CadetsInQueue  int `json:"cadets_in_queue"`
}

type ANOStats struct {
	College         *college.College `json:"college"`
	AssignedCamps   int              `json:"assigned_camps"`
	TotalVacancies  int              `json:"total_vacancies"`
	SubmittedCadets int              `json:"submitted_cadets"`
	PendingUploads  int              `json:"pending_uploads"`
}

// View is the dashboard for one caller. Exactly one section is set.
type View struct {
	Role     string         `json:"role"`
	Admin    *AdminStats    `json:"admin,omitempty"`
	Reviewer *ReviewerStats `json:"reviewer,omitempty"`
	ANO      *ANOStats      `json:"ano,omitempty"`
}

type Users interface {
	CountUsers(ctx context.Context) (int, error)
}

type Camps interface {
	CountPublished(ctx context.Context) (int, error)
	VacanciesForCollege(ctx context.Context, id kernel.CollegeID) (*camp.CollegeVacancies, error)
}

type Colleges interface {
	ListColleges(ctx context.Context) ([]*college.College, error)
	ForANO(ctx context.Context, anoID kernel.UserID) (*college.College, error)
}

type Selections interface {
	CountByStatus(ctx context.Context) (map[selection.Status]int, error)
	ReviewQueue(ctx context.Context, filter selection.QueueFilter) ([]*selection.Submission, error)
	ListFinalized(ctx context.Context, filter selection.QueueFilter) (*selection.FinalizedList, error)
	Track(ctx context.Context, anoID kernel.UserID) (*selection.Tracking, error)
}
