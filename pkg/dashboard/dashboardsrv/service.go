package dashboardsrv

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/asyncx"
	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/dashboard"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

type DashboardService struct {
	users      dashboard.Users
	camps      dashboard.Camps
	colleges   dashboard.Colleges
	selections dashboard.Selections
}

func NewDashboardService(users dashboard.Users, camps dashboard.Camps, colleges dashboard.Colleges, selections dashboard.Selections) *DashboardService {
	return &DashboardService{users: users, camps: camps, colleges: colleges, selections: selections}
}

// For builds the dashboard matching the caller's role
func (s *DashboardService) For(ctx context.Context, caller *kernel.AuthContext) (*dashboard.View, error) {
	v := &dashboard.View{Role: caller.Role}
	var err error
	switch iam.Role(caller.Role) {
	case iam.RoleAdmin:
		v.Admin, err = s.Admin(ctx)
	case iam.RoleClerk, iam.RoleCO:
		v.Reviewer, err = s.Reviewer(ctx)
	case iam.RoleANO:
		v.ANO, err = s.ANO(ctx, caller.UserID)
	default:
		return nil, errx.Forbidden("no dashboard for role").WithDetail("role", caller.Role)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *DashboardService) Admin(ctx context.Context) (*dashboard.AdminStats, error) {
	users := asyncx.Run(func() (int, error) { return s.users.CountUsers(ctx) })
	camps := asyncx.Run(func() (int, error) { return s.camps.CountPublished(ctx) })
	colleges := asyncx.Run(func() (int, error) {
		all, err := s.colleges.ListColleges(ctx)
		return len(all), err
	})
	pending := asyncx.Run(func() (int, error) {
		counts, err := s.selections.CountByStatus(ctx)
		return counts[selection.StatusPending], err
	})

	var (
		stats dashboard.AdminStats
		err   error
	)
	if stats.TotalUsers, err = users.Await(); err != nil {
		return nil, err
	}
	if stats.ActiveCamps, err = camps.Await(); err != nil {
		return nil, err
	}
	if stats.Colleges, err = colleges.Await(); err != nil {
		return nil, err
	}
	if stats.PendingReviews, err = pending.Await(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *DashboardService) Reviewer(ctx context.Context) (*dashboard.ReviewerStats, error) {
	queue := asyncx.Run(func() ([]*selection.Submission, error) {
		return s.selections.ReviewQueue(ctx, selection.QueueFilter{})
	})
	finalized := asyncx.Run(func() (*selection.FinalizedList, error) {
		return s.selections.ListFinalized(ctx, selection.QueueFilter{})
	})

	open, err := queue.Await()
	if err != nil {
		return nil, err
	}
	list, err := finalized.Await()
	if err != nil {
		return nil, err
	}

	stats := &dashboard.ReviewerStats{VerifiedCadets: list.TotalSelected}
	for _, sub := range open {
		if sub.Status == selection.StatusPending {
			stats.PendingReview++
		}
		stats.CadetsInQueue += len(sub.Cadets)
	}
	camps := map[kernel.CampID]bool{}
	for _, f := range list.Selections {
		camps[f.CampID] = true
	}
	stats.FinalizedCamps = len(camps)
	return stats, nil
}

func (s *DashboardService) ANO(ctx context.Context, anoID kernel.UserID) (*dashboard.ANOStats, error) {
	col, err := s.colleges.ForANO(ctx, anoID)
	if err != nil {
		return nil, err
	}

	vacancies := asyncx.Run(func() (*camp.CollegeVacancies, error) { return s.camps.VacanciesForCollege(ctx, col.ID) })
	tracking := asyncx.Run(func() (*selection.Tracking, error) { return s.selections.Track(ctx, anoID) })

	cv, err := vacancies.Await()
	if err != nil {
		return nil, err
	}
	tr, err := tracking.Await()
	if err != nil {
		return nil, err
	}

	stats := &dashboard.ANOStats{College: col, AssignedCamps: cv.Published, TotalVacancies: cv.TotalVacancies}
	for _, sub := range tr.Submissions {
		stats.SubmittedCadets += len(sub.Cadets)
		if len(sub.Documents) == 0 {
			stats.PendingUploads++
		}
	}
	return stats, nil
}
