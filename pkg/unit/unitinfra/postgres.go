package unitinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresUnitRepository struct {
	db *sqlx.DB
}

func NewPostgresUnitRepository(db *sqlx.DB) *PostgresUnitRepository {
	return &PostgresUnitRepository{db: db}
}

var _ unit.UnitRepository = (*PostgresUnitRepository)(nil)

// Save upserts on id; created_at is kept from the first insert
func (r *PostgresUnitRepository) Save(ctx context.Context, u unit.Unit) error {
	query := `
		INSERT INTO units (id, name, co_id, clerk_id, colleges, created_at, updated_at)
		VALUES (:id, :name, :co_id, :clerk_id, :colleges, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			co_id = EXCLUDED.co_id,
			clerk_id = EXCLUDED.clerk_id,
			colleges = EXCLUDED.colleges,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(u)); err != nil {
		return errx.Wrap(err, "failed to save unit", errx.TypeInternal).WithDetail("unit_id", u.ID)
	}
	return nil
}

func (r *PostgresUnitRepository) FindByID(ctx context.Context, id kernel.UnitID) (*unit.Unit, error) {
	var p unitPersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM units WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, unit.ErrUnitNotFound().WithDetail("unit_id", id)
		}
		return nil, errx.Wrap(err, "failed to find unit", errx.TypeInternal)
	}
	u := toDomain(p)
	return &u, nil
}

func (r *PostgresUnitRepository) FindByOfficer(ctx context.Context, userID kernel.UserID) ([]*unit.Unit, error) {
	var rows []unitPersistence
	query := `
		SELECT * FROM units
		WHERE co_id = $1 OR clerk_id = $1
		ORDER BY (co_id = $1) DESC, name`
	if err := r.db.SelectContext(ctx, &rows, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to find units by officer", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresUnitRepository) List(ctx context.Context) ([]*unit.Unit, error) {
	var rows []unitPersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM units ORDER BY name`); err != nil {
		return nil, errx.Wrap(err, "failed to list units", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresUnitRepository) Delete(ctx context.Context, id kernel.UnitID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id.String())
	if dbx.IsForeignKeyViolation(err) {
		return errx.Conflict("unit still has colleges; reassign them first").WithCause(err)
	}
	if err != nil {
		return errx.Wrap(err, "failed to delete unit", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	} else if n == 0 {
		return unit.ErrUnitNotFound()
	}
	return nil
}

type unitPersistence struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	COID      string         `db:"co_id"`
	ClerkID   string         `db:"clerk_id"`
	Colleges  pq.StringArray `db:"colleges"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func toPersistence(u unit.Unit) unitPersistence {
	colleges := u.Colleges
	if colleges == nil {
		colleges = []string{}
	}
	return unitPersistence{
		ID:        u.ID.String(),
		Name:      u.Name,
		COID:      u.COID.String(),
		ClerkID:   u.ClerkID.String(),
		Colleges:  colleges,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toDomain(p unitPersistence) unit.Unit {
	return unit.Unit{
		ID:        kernel.UnitID(p.ID),
		Name:      p.Name,
		COID:      kernel.UserID(p.COID),
		ClerkID:   kernel.UserID(p.ClerkID),
		Colleges:  []string(p.Colleges),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainSlice(rows []unitPersistence) []*unit.Unit {
	out := make([]*unit.Unit, len(rows))
	for i, p := range rows {
		u := toDomain(p)
		out[i] = &u
	}
	return out
}
