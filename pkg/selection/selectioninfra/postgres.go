package selectioninfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresUnitOfWork hands out repositories bound to a single transaction
type PostgresUnitOfWork struct {
	db *sqlx.DB
}

func NewPostgresUnitOfWork(db *sqlx.DB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db}
}

var _ selection.UnitOfWork = (*PostgresUnitOfWork)(nil)

func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(selection.Repos) error) error {
	return dbx.WithTx(ctx, u.db, func(tx *sqlx.Tx) error {
		return fn(NewRepos(tx))
	})
}

// NewRepos binds all three repositories to db, which may be a *sqlx.DB or a *sqlx.Tx
func NewRepos(db sqlx.ExtContext) selection.Repos {
	return selection.Repos{
		Submissions: &PostgresSubmissionRepository{db: db},
		Finalized:   &PostgresFinalizedRepository{db: db},
		Institute:   &PostgresInstituteRepository{db: db},
	}
}

type PostgresSubmissionRepository struct {
	db sqlx.ExtContext
}

var _ selection.SubmissionRepository = (*PostgresSubmissionRepository)(nil)

func (r *PostgresSubmissionRepository) Create(ctx context.Context, s selection.Submission) error {
	query := `
		INSERT INTO submissions (
			id, camp_id, camp_title, college_id, college_name, ano_id, ano_name,
			cadets, decisions, institute_picks, documents, status,
			submitted_at, reviewed_at, finalized_at, finalized_by, version
		) VALUES (
			:id, :camp_id, :camp_title, :college_id, :college_name, :ano_id, :ano_name,
			:cadets, :decisions, :institute_picks, :documents, :status,
			:submitted_at, :reviewed_at, :finalized_at, :finalized_by, :version
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, toPersistence(s)); err != nil {
		return errx.Wrap(err, "failed to create submission", errx.TypeInternal).WithDetail("submission_id", s.ID)
	}
	return nil
}

func (r *PostgresSubmissionRepository) Update(ctx context.Context, s *selection.Submission) error {
	query := `
		UPDATE submissions SET
			cadets = :cadets,
			decisions = :decisions,
			institute_picks = :institute_picks,
			documents = :documents,
			status = :status,
			reviewed_at = :reviewed_at,
			finalized_at = :finalized_at,
			finalized_by = :finalized_by,
			version = version + 1
		WHERE id = :id AND version = :version`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, toPersistence(*s))
	if err != nil {
		return errx.Wrap(err, "failed to update submission", errx.TypeInternal).WithDetail("submission_id", s.ID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, s.ID); err != nil {
			return err
		}
		return selection.ErrStaleSubmission().WithDetail("submission_id", s.ID)
	}
	s.Version++
	return nil
}

func (r *PostgresSubmissionRepository) FindByID(ctx context.Context, id kernel.SubmissionID) (*selection.Submission, error) {
	var p submissionPersistence
	if err := sqlx.GetContext(ctx, r.db, &p, `SELECT * FROM submissions WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, selection.ErrSubmissionNotFound().WithDetail("submission_id", id)
		}
		return nil, errx.Wrap(err, "failed to find submission", errx.TypeInternal)
	}
	s := toDomain(p)
	return &s, nil
}

func (r *PostgresSubmissionRepository) FindByIDs(ctx context.Context, ids []kernel.SubmissionID) ([]*selection.Submission, error) {
	if len(ids) == 0 {
		return []*selection.Submission{}, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var rows []submissionPersistence
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT * FROM submissions WHERE id = ANY($1)`, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find submissions", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresSubmissionRepository) ListByANO(ctx context.Context, anoID kernel.UserID) ([]*selection.Submission, error) {
	var rows []submissionPersistence
	query := `SELECT * FROM submissions WHERE ano_id = $1 ORDER BY submitted_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, anoID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list submissions", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresSubmissionRepository) ListOpen(ctx context.Context, campID kernel.CampID) ([]*selection.Submission, error) {
	query := `SELECT * FROM submissions WHERE status <> $1`
	args := []any{string(selection.StatusFinalized)}
	if !campID.IsEmpty() {
		query += ` AND camp_id = $2`
		args = append(args, campID.String())
	}
	query += ` ORDER BY submitted_at DESC`

	var rows []submissionPersistence
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list open submissions", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresSubmissionRepository) CountByStatus(ctx context.Context) (map[selection.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT status, COUNT(*) AS n FROM submissions GROUP BY status`); err != nil {
		return nil, errx.Wrap(err, "failed to count submissions", errx.TypeInternal)
	}
	out := make(map[selection.Status]int, len(rows))
	for _, row := range rows {
		out[selection.Status(row.Status)] = row.N
	}
	return out, nil
}

type submissionPersistence struct {
	ID             string                         `db:"id"`
	CampID         string                         `db:"camp_id"`
	CampTitle      string                         `db:"camp_title"`
	CollegeID      string                         `db:"college_id"`
	CollegeName    string                         `db:"college_name"`
	ANOID          string                         `db:"ano_id"`
	ANOName        string                         `db:"ano_name"`
	Cadets         dbx.JSON[[]selection.Cadet]    `db:"cadets"`
	Decisions      dbx.JSON[[]selection.Decision] `db:"decisions"`
	InstitutePicks pq.StringArray                 `db:"institute_picks"`
	Documents      dbx.JSON[[]selection.Document] `db:"documents"`
	Status         string                         `db:"status"`
	SubmittedAt    time.Time                      `db:"submitted_at"`
	ReviewedAt     sql.NullTime                   `db:"reviewed_at"`
	FinalizedAt    sql.NullTime                   `db:"finalized_at"`
	FinalizedBy    sql.NullString                 `db:"finalized_by"`
	Version        int                            `db:"version"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func toPersistence(s selection.Submission) submissionPersistence {
	return submissionPersistence{
		ID:             s.ID.String(),
		CampID:         s.CampID.String(),
		CampTitle:      s.CampTitle,
		CollegeID:      s.CollegeID.String(),
		CollegeName:    s.CollegeName,
		ANOID:          s.ANOID.String(),
		ANOName:        s.ANOName,
		Cadets:         dbx.NewJSON(orEmpty(s.Cadets)),
		Decisions:      dbx.NewJSON(orEmpty(s.Decisions)),
		InstitutePicks: pq.StringArray(orEmpty(s.InstitutePicks)),
		Documents:      dbx.NewJSON(orEmpty(s.Documents)),
		Status:         string(s.Status),
		SubmittedAt:    s.SubmittedAt,
		ReviewedAt:     nullTime(s.ReviewedAt),
		FinalizedAt:    nullTime(s.FinalizedAt),
		FinalizedBy:    sql.NullString{String: s.FinalizedBy.String(), Valid: !s.FinalizedBy.IsEmpty()},
		Version:        s.Version,
	}
}

func toDomain(p submissionPersistence) selection.Submission {
	return selection.Submission{
		ID:             kernel.SubmissionID(p.ID),
		CampID:         kernel.CampID(p.CampID),
		CampTitle:      p.CampTitle,
		CollegeID:      kernel.CollegeID(p.CollegeID),
		CollegeName:    p.CollegeName,
		ANOID:          kernel.UserID(p.ANOID),
		ANOName:        p.ANOName,
		Cadets:         p.Cadets.V,
		Decisions:      p.Decisions.V,
		InstitutePicks: []string(p.InstitutePicks),
		Documents:      p.Documents.V,
		Status:         selection.Status(p.Status),
		SubmittedAt:    p.SubmittedAt,
		ReviewedAt:     timePtr(p.ReviewedAt),
		FinalizedAt:    timePtr(p.FinalizedAt),
		FinalizedBy:    kernel.UserID(p.FinalizedBy.String),
		Version:        p.Version,
	}
}

func toDomainSlice(rows []submissionPersistence) []*selection.Submission {
	out := make([]*selection.Submission, len(rows))
	for i, p := range rows {
		s := toDomain(p)
		out[i] = &s
	}
	return out
}
