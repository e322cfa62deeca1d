package dbx

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema file. Name is the file name.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the embedded migrations in apply order
func Migrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errx.Wrap(err, "failed to read migrations", errx.TypeInternal)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, errx.Wrap(err, "failed to read migration", errx.TypeInternal).WithDetail("file", e.Name())
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

const schemaTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies pending migrations, each in its own transaction.
// It returns the names it applied.
func Migrate(ctx context.Context, db *sqlx.DB) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schemaTable); err != nil {
		return nil, errx.Wrap(err, "failed to create schema_migrations", errx.TypeInternal)
	}

	var done []string
	if err := db.SelectContext(ctx, &done, `SELECT name FROM schema_migrations`); err != nil {
		return nil, errx.Wrap(err, "failed to read applied migrations", errx.TypeInternal)
	}
	doneSet := make(map[string]bool, len(done))
	for _, n := range done {
		doneSet[n] = true
	}

	var applied []string
	for _, m := range migrations {
		if doneSet[m.Name] {
			continue
		}
		err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return errx.Wrap(err, "migration failed", errx.TypeInternal).WithDetail("file", m.Name)
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name)
			return err
		})
		if err != nil {
			return applied, err
		}
		logx.WithField("migration", m.Name).Info("dbx: migration applied")
		applied = append(applied, m.Name)
	}
	return applied, nil
}
