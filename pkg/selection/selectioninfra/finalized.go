package selectioninfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
	"github.com/jmoiron/sqlx"
)

type PostgresFinalizedRepository struct {
	db sqlx.ExtContext
}

var _ selection.FinalizedRepository = (*PostgresFinalizedRepository)(nil)

func (r *PostgresFinalizedRepository) Create(ctx context.Context, f selection.FinalizedSelection) error {
	query := `
		INSERT INTO finalized_selections (
			id, camp_id, camp_title, college_name, submission_id,
			selected, reserve, finalized_at, finalized_by, reviewer_name
		) VALUES (
			:id, :camp_id, :camp_title, :college_name, :submission_id,
			:selected, :reserve, :finalized_at, :finalized_by, :reviewer_name
		)`

	p := finalizedPersistence{
		ID:           f.ID,
		CampID:       f.CampID.String(),
		CampTitle:    f.CampTitle,
		CollegeName:  f.CollegeName,
		SubmissionID: f.SubmissionID.String(),
		Selected:     dbx.NewJSON(orEmpty(f.Selected)),
		Reserve:      dbx.NewJSON(orEmpty(f.Reserve)),
		FinalizedAt:  f.FinalizedAt,
		FinalizedBy:  f.FinalizedBy.String(),
		ReviewerName: f.ReviewerName,
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, p); err != nil {
		return errx.Wrap(err, "failed to create finalized selection", errx.TypeInternal).WithDetail("submission_id", f.SubmissionID)
	}
	return nil
}

func (r *PostgresFinalizedRepository) List(ctx context.Context, campID kernel.CampID) ([]*selection.FinalizedSelection, error) {
	query := `SELECT * FROM finalized_selections`
	var args []any
	if !campID.IsEmpty() {
		query += ` WHERE camp_id = $1`
		args = append(args, campID.String())
	}
	query += ` ORDER BY finalized_at DESC`

	var rows []finalizedPersistence
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list finalized selections", errx.TypeInternal)
	}

	out := make([]*selection.FinalizedSelection, len(rows))
	for i, p := range rows {
		out[i] = &selection.FinalizedSelection{
			ID:           p.ID,
			CampID:       kernel.CampID(p.CampID),
			CampTitle:    p.CampTitle,
			CollegeName:  p.CollegeName,
			SubmissionID: kernel.SubmissionID(p.SubmissionID),
			Selected:     p.Selected.V,
			Reserve:      p.Reserve.V,
			FinalizedAt:  p.FinalizedAt,
			FinalizedBy:  kernel.UserID(p.FinalizedBy),
			ReviewerName: p.ReviewerName,
		}
	}
	return out, nil
}

type finalizedPersistence struct {
	ID           string                              `db:"id"`
	CampID       string                              `db:"camp_id"`
	CampTitle    string                              `db:"camp_title"`
	CollegeName  string                              `db:"college_name"`
	SubmissionID string                              `db:"submission_id"`
	Selected     dbx.JSON[[]selection.SelectedCadet] `db:"selected"`
	Reserve      dbx.JSON[[]selection.SelectedCadet] `db:"reserve"`
	FinalizedAt  time.Time                           `db:"finalized_at"`
	FinalizedBy  string                              `db:"finalized_by"`
	ReviewerName string                              `db:"reviewer_name"`
}

type PostgresInstituteRepository struct {
	db sqlx.ExtContext
}

var _ selection.InstituteRepository = (*PostgresInstituteRepository)(nil)

func (r *PostgresInstituteRepository) Create(ctx context.Context, s selection.InstituteSelection) error {
	query := `
		INSERT INTO institute_selections (
			id, selected, selection_date, status, total_selected,
			camp_breakdown, college_breakdown, created_by
		) VALUES (
			:id, :selected, :selection_date, :status, :total_selected,
			:camp_breakdown, :college_breakdown, :created_by
		)`

	p := institutePersistence{
		ID:               s.ID,
		Selected:         dbx.NewJSON(orEmpty(s.Selected)),
		SelectionDate:    s.SelectionDate,
		Status:           s.Status,
		TotalSelected:    s.TotalSelected,
		CampBreakdown:    dbx.NewJSON(s.CampBreakdown),
		CollegeBreakdown: dbx.NewJSON(s.CollegeBreakdown),
		CreatedBy:        s.CreatedBy.String(),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, p); err != nil {
		return errx.Wrap(err, "failed to create institute selection", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresInstituteRepository) List(ctx context.Context) ([]*selection.InstituteSelection, error) {
	var rows []institutePersistence
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT * FROM institute_selections ORDER BY selection_date DESC`); err != nil {
		return nil, errx.Wrap(err, "failed to list institute selections", errx.TypeInternal)
	}

	out := make([]*selection.InstituteSelection, len(rows))
	for i, p := range rows {
		out[i] = &selection.InstituteSelection{
			ID:               p.ID,
			Selected:         p.Selected.V,
			SelectionDate:    p.SelectionDate,
			Status:           p.Status,
			TotalSelected:    p.TotalSelected,
			CampBreakdown:    p.CampBreakdown.V,
			CollegeBreakdown: p.CollegeBreakdown.V,
			CreatedBy:        kernel.UserID(p.CreatedBy),
		}
	}
	return out, nil
}

type institutePersistence struct {
	ID               string                               `db:"id"`
	Selected         dbx.JSON[[]selection.InstituteCadet] `db:"selected"`
	SelectionDate    time.Time                            `db:"selection_date"`
	Status           string                               `db:"status"`
	TotalSelected    int                                  `db:"total_selected"`
	CampBreakdown    dbx.JSON[map[string]int]             `db:"camp_breakdown"`
	CollegeBreakdown dbx.JSON[map[string]int]             `db:"college_breakdown"`
	CreatedBy        string                               `db:"created_by"`
}
