package selection

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type SubmissionRepository interface {
	Create(ctx context.Context, s Submission) error
	// Update writes s only while the stored version still equals s.Version,
	// then advances s.Version. A mismatch yields ErrStaleSubmission.
	Update(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, id kernel.SubmissionID) (*Submission, error)
	FindByIDs(ctx context.Context, ids []kernel.SubmissionID) ([]*Submission, error)
	// ListByANO returns the ANO's submissions newest first
	ListByANO(ctx context.Context, anoID kernel.UserID) ([]*Submission, error)
	// ListOpen returns non-finalized submissions newest first, for one camp when campID is set
	ListOpen(ctx context.Context, campID kernel.CampID) ([]*Submission, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type FinalizedRepository interface {
	Create(ctx context.Context, f FinalizedSelection) error
	// List returns finalized selections newest first, for one camp when campID is set
	List(ctx context.Context, campID kernel.CampID) ([]*FinalizedSelection, error)
}

type InstituteRepository interface {
	Create(ctx context.Context, s InstituteSelection) error
	// List returns institute selections newest first
	List(ctx context.Context) ([]*InstituteSelection, error)
}

// Repos is the set of repositories bound to one unit of work
type Repos struct {
	Submissions SubmissionRepository
	Finalized   FinalizedRepository
	Institute   InstituteRepository
}

// UnitOfWork runs fn against repositories that commit or roll back together
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repos) error) error
}

type CampLookup interface {
	GetCamp(ctx context.Context, id kernel.CampID) (*camp.CampNotification, error)
}

type ANOColleges interface {
	ForANO(ctx context.Context, anoID kernel.UserID) (*college.College, error)
}

// NoticeKind names the message a cadet receives
type NoticeKind string

const (
	NoticeSelected  NoticeKind = "selected"
	NoticeReserve   NoticeKind = "reserve"
	NoticeInstitute NoticeKind = "institute"
)

type CadetNotice struct {
	Kind        NoticeKind
	Cadet       Cadet
	CampTitle   string
	CollegeName string
}

// Notifier delivers cadet notices. Delivery failures never undo a decision.
type Notifier interface {
	NotifyCadets(ctx context.Context, notices []CadetNotice) error
}
