package userinfra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/dbx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.UserRepository = (*PostgresUserRepository)(nil)

// Save inserts or updates a user. Email uniqueness is enforced by the table.
func (r *PostgresUserRepository) Save(ctx context.Context, u user.User) error {
	exists, err := r.exists(ctx, u.ID)
	if err != nil {
		return err
	}
	if exists {
		return r.update(ctx, u)
	}
	return r.create(ctx, u)
}

func (r *PostgresUserRepository) create(ctx context.Context, u user.User) error {
	query := `
		INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :password_hash, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, toPersistence(u)); err != nil {
		if dbx.IsUniqueViolation(err) {
			return user.ErrEmailTaken().WithDetail("email", u.Email)
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).WithDetail("user_id", u.ID)
	}
	return nil
}

func (r *PostgresUserRepository) update(ctx context.Context, u user.User) error {
	query := `
		UPDATE users SET
			name = :name,
			email = :email,
			role = :role,
			password_hash = :password_hash,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, toPersistence(u))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return user.ErrEmailTaken().WithDetail("email", u.Email)
		}
		return errx.Wrap(err, "failed to update user", errx.TypeInternal).WithDetail("user_id", u.ID)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	} else if n == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var p userPersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM users WHERE id = $1`, id.String()); err != nil {
		if dbx.IsNoRows(err) {
			return nil, user.ErrUserNotFound().WithDetail("user_id", id)
		}
		return nil, errx.Wrap(err, "failed to find user by ID", errx.TypeInternal)
	}
	u := toDomain(p)
	return &u, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var p userPersistence
	if err := r.db.GetContext(ctx, &p, `SELECT * FROM users WHERE email = $1`, user.NormalizeEmail(email)); err != nil {
		if dbx.IsNoRows(err) {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.TypeInternal)
	}
	u := toDomain(p)
	return &u, nil
}

func (r *PostgresUserRepository) FindByIDs(ctx context.Context, ids []kernel.UserID) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var rows []userPersistence
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM users WHERE id = ANY($1)`, pq.StringArray(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find users by IDs", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

// List orders by name. Text search is pushed to SQL with ILIKE.
func (r *PostgresUserRepository) List(ctx context.Context, f user.ListFilter) ([]*user.User, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeAdmin {
		where = append(where, "role <> 'admin'")
	}
	if f.Role != "" {
		args = append(args, f.Role.String())
		where = append(where, "role = $"+strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR email ILIKE $"+n+" OR role ILIKE $"+n+")")
	}

	query := `SELECT * FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	var rows []userPersistence
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}
	return toDomainSlice(rows), nil
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, errx.Wrap(err, "failed to count users", errx.TypeInternal)
	}
	return n, nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id kernel.UserID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if dbx.IsForeignKeyViolation(err) {
		return errx.Conflict("user is still assigned as an officer or has submissions").WithCause(err)
	}
	if err != nil {
		return errx.Wrap(err, "failed to delete user", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	} else if n == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

func (r *PostgresUserRepository) exists(ctx context.Context, id kernel.UserID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id.String()); err != nil {
		return false, errx.Wrap(err, "failed to check user existence", errx.TypeInternal)
	}
	return exists, nil
}

type userPersistence struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func toPersistence(u user.User) userPersistence {
	return userPersistence{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role.String(),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomain(p userPersistence) user.User {
	return user.User{
		ID:           kernel.UserID(p.ID),
		Name:         p.Name,
		Email:        p.Email,
		Role:         iam.Role(p.Role),
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toDomainSlice(rows []userPersistence) []*user.User {
	out := make([]*user.User, len(rows))
	for i, p := range rows {
		u := toDomain(p)
		out[i] = &u
	}
	return out
}
