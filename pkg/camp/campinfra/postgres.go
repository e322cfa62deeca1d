package campinfra

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

type PostgresCampRepository struct {
	db *sqlx.DB
}

func NewPostgresCampRepository(db *sqlx.DB) *PostgresCampRepository {
	return &PostgresCampRepository{db: db}
}

var _ camp.CampRepository = (*PostgresCampRepository)(nil)

func (r *PostgresCampRepository) Save(ctx context.Context, c camp.CampNotification) error {
	query := `
		INSERT INTO camp_notifications (
			id, title, description, reporting_date, reporting_time, venue, vacancies,
			official_letter, send_to, created_by, status, created_at, updated_at
		) VALUES (
			:id, :title, :description, :reporting_date, :reporting_time, :venue, :vacancies,
			:official_letter, :send_to, :created_by, :status, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			reporting_date = EXCLUDED.reporting_date,
			reporting_time = EXCLUDED.reporting_time,
			venue = EXCLUDED.venue,
			vacancies = EXCLUDED.vacancies,
			official_letter = EXCLUDED.official_letter,
			send_to = EXCLUDED.send_to,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(c)); err != nil {
		return errx.Wrap(err, "failed to save camp notification", errx.TypeInternal).WithDetail("camp_id", c.ID)
	}
	return nil
}

func (r *PostgresCampRepository) FindByID(ctx context.Context, id kernel.CampID) (*camp.CampNotification, error) {
	var p campPersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM camp_notifications WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, camp.ErrCampNotFound().WithDetail("camp_id", id)
		}
		return nil, errx.Wrap(err, "failed to find camp notification", errx.TypeInternal)
	}
	c := toDomain(p)
	return &c, nil
}

func (r *PostgresCampRepository) List(ctx context.Context, filter camp.ListFilter) ([]*camp.CampNotification, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := "$" + strconv.Itoa(len(args))
		where = append(where, "(title ILIKE "+n+" OR venue ILIKE "+n+" OR description ILIKE "+n+")")
	}

	query := `SELECT * FROM camp_notifications`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []campPersistence
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list camp notifications", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresCampRepository) ListForCollege(ctx context.Context, id kernel.CollegeID) ([]*camp.CampNotification, error) {
	var rows []campPersistence
	query := `SELECT * FROM camp_notifications WHERE vacancies ? $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list camps for college", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresCampRepository) CountByStatus(ctx context.Context, status camp.Status) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM camp_notifications WHERE status = $1`, string(status)); err != nil {
		return 0, errx.Wrap(err, "failed to count camp notifications", errx.TypeInternal)
	}
	return n, nil
}

func (r *PostgresCampRepository) Delete(ctx context.Context, id kernel.CampID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM camp_notifications WHERE id = $1`, id.String())
	if dbx.IsForeignKeyViolation(err) {
		return camp.ErrCampInUse().WithCause(err)
	}
	if err != nil {
		return errx.Wrap(err, "failed to delete camp notification", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	} else if n == 0 {
		return camp.ErrCampNotFound()
	}
	return nil
}

type campPersistence struct {
	ID             string                   `db:"id"`
	Title          string                   `db:"title"`
	Description    string                   `db:"description"`
	ReportingDate  string                   `db:"reporting_date"`
	ReportingTime  string                   `db:"reporting_time"`
	Venue          string                   `db:"venue"`
	Vacancies      dbx.JSON[map[string]int] `db:"vacancies"`
	OfficialLetter sql.NullString           `db:"official_letter"`
	SendTo         string                   `db:"send_to"`
	CreatedBy      string                   `db:"created_by"`
	Status         string                   `db:"status"`
	CreatedAt      time.Time                `db:"created_at"`
	UpdatedAt      time.Time                `db:"updated_at"`
}

func toPersistence(c camp.CampNotification) campPersistence {
	vacancies := make(map[string]int, len(c.Vacancies))
	for id, v := range c.Vacancies {
		vacancies[id.String()] = v
	}
	return campPersistence{
		ID:             c.ID.String(),
		Title:          c.Title,
		Description:    c.Description,
		ReportingDate:  c.ReportingDate,
		ReportingTime:  c.ReportingTime,
		Venue:          c.Venue,
		Vacancies:      dbx.NewJSON(vacancies),
		OfficialLetter: sql.NullString{String: c.OfficialLetter, Valid: c.OfficialLetter != ""},
		SendTo:         string(c.SendTo),
		CreatedBy:      c.CreatedBy,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toDomain(p campPersistence) camp.CampNotification {
	vacancies := make(map[kernel.CollegeID]int, len(p.Vacancies.V))
	for id, v := range p.Vacancies.V {
		vacancies[kernel.CollegeID(id)] = v
	}
	return camp.CampNotification{
		ID:             kernel.CampID(p.ID),
		Title:          p.Title,
		Description:    p.Description,
		ReportingDate:  p.ReportingDate,
		ReportingTime:  p.ReportingTime,
		Venue:          p.Venue,
		Vacancies:      vacancies,
		OfficialLetter: p.OfficialLetter.String,
		SendTo:         camp.Audience(p.SendTo),
		CreatedBy:      p.CreatedBy,
		Status:         camp.Status(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDomainSlice(rows []campPersistence) []*camp.CampNotification {
	out := make([]*camp.CampNotification, len(rows))
	for i, p := range rows {
		c := toDomain(p)
		out[i] = &c
	}
	return out
}
