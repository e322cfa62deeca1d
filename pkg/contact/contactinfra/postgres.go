package contactinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresContactRepository struct {
	db *sqlx.DB
}

func NewPostgresContactRepository(db *sqlx.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

var _ contact.ContactRepository = (*PostgresContactRepository)(nil)

func (r *PostgresContactRepository) Save(ctx context.Context, c contact.AnoContact) error {
	query := `
		INSERT INTO ano_contacts (id, email, name, rank, whatsapp_number, created_at, updated_at)
		VALUES (:id, :email, :name, :rank, :whatsapp_number, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			rank = EXCLUDED.rank,
			whatsapp_number = EXCLUDED.whatsapp_number,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(c)); err != nil {
		if dbx.IsUniqueViolation(err) {
			return contact.ErrEmailTaken().WithDetail("email", c.Email)
		}
		return errx.Wrap(err, "failed to save contact", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresContactRepository) FindByID(ctx context.Context, id contact.ContactID) (*contact.AnoContact, error) {
	var p contactPersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM ano_contacts WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, contact.ErrContactNotFound().WithDetail("contact_id", id)
		}
		return nil, errx.Wrap(err, "failed to find contact", errx.TypeInternal)
	}
	c := toDomain(p)
	return &c, nil
}

func (r *PostgresContactRepository) FindByEmails(ctx context.Context, emails []string) ([]*contact.AnoContact, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var rows []contactPersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM ano_contacts WHERE email = ANY($1)`, pq.StringArray(emails)); err != nil {
		return nil, errx.Wrap(err, "failed to find contacts by email", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresContactRepository) List(ctx context.Context) ([]*contact.AnoContact, error) {
	var rows []contactPersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM ano_contacts ORDER BY created_at DESC`); err != nil {
		return nil, errx.Wrap(err, "failed to list contacts", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, id contact.ContactID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ano_contacts WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete contact", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	} else if n == 0 {
		return contact.ErrContactNotFound()
	}
	return nil
}

type contactPersistence struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	Rank           string    `db:"rank"`
	WhatsAppNumber string    `db:"whatsapp_number"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func toPersistence(c contact.AnoContact) contactPersistence {
	return contactPersistence{
		ID:             c.ID.String(),
		Email:          c.Email,
		Name:           c.Name,
		Rank:           c.Rank,
		WhatsAppNumber: c.WhatsAppNumber,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toDomain(p contactPersistence) contact.AnoContact {
	return contact.AnoContact{
		ID:             contact.ContactID(p.ID),
		Email:          p.Email,
		Name:           p.Name,
		Rank:           p.Rank,
		WhatsAppNumber: p.WhatsAppNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDomainSlice(rows []contactPersistence) []*contact.AnoContact {
	out := make([]*contact.AnoContact, len(rows))
	for i, p := range rows {
		c := toDomain(p)
		out[i] = &c
	}
	return out
}
