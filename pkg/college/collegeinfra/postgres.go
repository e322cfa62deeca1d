package collegeinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresCollegeRepository struct {
	db *sqlx.DB
}

func NewPostgresCollegeRepository(db *sqlx.DB) *PostgresCollegeRepository {
	return &PostgresCollegeRepository{db: db}
}

var _ college.CollegeRepository = (*PostgresCollegeRepository)(nil)

func (r *PostgresCollegeRepository) Save(ctx context.Context, c college.College) error {
	query := `
		INSERT INTO colleges (id, name, unit_id, anos, created_at, updated_at)
		VALUES (:id, :name, :unit_id, :anos, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			unit_id = EXCLUDED.unit_id,
			anos = EXCLUDED.anos,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(c)); err != nil {
		return errx.Wrap(err, "failed to save college", errx.TypeInternal).WithDetail("college_id", c.ID)
	}
	return nil
}

func (r *PostgresCollegeRepository) FindByID(ctx context.Context, id kernel.CollegeID) (*college.College, error) {
	var p collegePersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM colleges WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, college.ErrCollegeNotFound().WithDetail("college_id", id)
		}
		return nil, errx.Wrap(err, "failed to find college", errx.TypeInternal)
	}
	c := toDomain(p)
	return &c, nil
}

func (r *PostgresCollegeRepository) FindByANO(ctx context.Context, anoID kernel.UserID) (*college.College, error) {
	var p collegePersistence
	query := `SELECT * FROM colleges WHERE $1 = ANY(anos) ORDER BY created_at LIMIT 1`
	if err := r.db.GetContext(ctx, &p, query, anoID.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, college.ErrNoCollegeForANO().WithDetail("user_id", anoID)
		}
		return nil, errx.Wrap(err, "failed to find college by ano", errx.TypeInternal)
	}
	c := toDomain(p)
	return &c, nil
}

func (r *PostgresCollegeRepository) FindByIDs(ctx context.Context, ids []kernel.CollegeID) ([]*college.College, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	var rows []collegePersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM colleges WHERE id = ANY($1) ORDER BY name`, pq.StringArray(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find colleges", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresCollegeRepository) ListByUnit(ctx context.Context, unitID kernel.UnitID) ([]*college.College, error) {
	var rows []collegePersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM colleges WHERE unit_id = $1 ORDER BY name`, unitID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list colleges by unit", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresCollegeRepository) List(ctx context.Context) ([]*college.College, error) {
	var rows []collegePersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM colleges ORDER BY name`); err != nil {
		return nil, errx.Wrap(err, "failed to list colleges", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresCollegeRepository) Delete(ctx context.Context, id kernel.CollegeID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM colleges WHERE id = $1`, id.String())
	if dbx.IsForeignKeyViolation(err) {
		return errx.Conflict("college has cadet submissions and cannot be deleted").WithCause(err)
	}
	if err != nil {
		return errx.Wrap(err, "failed to delete college", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	} else if n == 0 {
		return college.ErrCollegeNotFound()
	}
	return nil
}

type collegePersistence struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	UnitID    string         `db:"unit_id"`
	ANOs      pq.StringArray `db:"anos"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func toPersistence(c college.College) collegePersistence {
	anos := make(pq.StringArray, len(c.ANOs))
	for i, id := range c.ANOs {
		anos[i] = id.String()
	}
	return collegePersistence{
		ID:        c.ID.String(),
		Name:      c.Name,
		UnitID:    c.UnitID.String(),
		ANOs:      anos,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toDomain(p collegePersistence) college.College {
	anos := make([]kernel.UserID, len(p.ANOs))
	for i, id := range p.ANOs {
		anos[i] = kernel.UserID(id)
	}
	return college.College{
		ID:        kernel.CollegeID(p.ID),
		Name:      p.Name,
		UnitID:    kernel.UnitID(p.UnitID),
		ANOs:      anos,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainSlice(rows []collegePersistence) []*college.College {
	out := make([]*college.College, len(rows))
	for i, p := range rows {
		c := toDomain(p)
		out[i] = &c
	}
	return out
}
