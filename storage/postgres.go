package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ewintr.nl/ytharvest/model"
	_ "github.com/lib/pq"
)

type PostgresInfo struct {
	URL string
}

func OpenPostgres(ctx context.Context, info PostgresInfo) (*sql.DB, error) {
	db, err := sql.Open("postgres", info.URL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Postgres keeps a ledger of job runs.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, db *sql.DB) (*Postgres, error) {
	p := &Postgres{db: db}
	if err := p.migrate(ctx, pgMigration); err != nil {
		return &Postgres{}, err
	}

	return p, nil
}

func (p *Postgres) Record(ctx context.Context, run *model.JobRun) error {
	summary := run.Summary
	if len(summary) == 0 {
		summary = []byte("{}")
	}
	if _, err := p.db.ExecContext(ctx, `
INSERT INTO job_run
(id, job, status_code, started_at, finished_at, summary)
VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID.String(), string(run.Job), run.StatusCode, run.StartedAt, run.FinishedAt, string(summary),
	); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}

	return nil
}

// migrate runs the migrations that are not registered yet, each in its own
// transaction together with its registration.
func (p *Postgres) migrate(ctx context.Context, wanted []string) error {
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	existing, err := p.appliedMigrations(ctx)
	if err != nil {
		return err
	}
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	for _, query := range missing {
		tx, err := p.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to migrate: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO migration (query) VALUES ($1)`, query); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to register migration: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) appliedMigrations(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	defer rows.Close()

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			return nil, err
		}
		existing = append(existing, query)
	}

	return existing, rows.Err()
}

// compareMigrations returns the wanted migrations that are not applied yet.
// The applied ones must be a prefix of wanted.
func compareMigrations(wanted, existing []string) ([]string, error) {
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations: %d applied, %d known", len(existing), len(wanted))
	}
	for i, query := range existing {
		if wanted[i] != query {
			return []string{}, fmt.Errorf("incompatible migration %d: %v", i+1, wanted[i])
		}
	}

	return append([]string{}, wanted[len(existing):]...), nil
}
