package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// PostgresAdapter is the second server-relational backend, kept so the
// SQL-side comparison is not tied to a single engine.
type PostgresAdapter struct {
	conn *pgx.Conn
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		quantity INT NOT NULL
	)
`

func (a *PostgresAdapter) Name() string { return "postgres" }

func (a *PostgresAdapter) Connect(ctx context.Context, cfg config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("postgres: connect: %w", err)
	}
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		conn.Close(ctx)
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	a.conn = conn
	return nil
}

func (a *PostgresAdapter) Close() error {
	return a.conn.Close(context.Background())
}

// Reset truncates the records table and restarts its identity state. Only
// the benchmark's own table is touched.
func (a *PostgresAdapter) Reset(ctx context.Context) error {
	if _, err := a.conn.Exec(ctx, "TRUNCATE TABLE records RESTART IDENTITY"); err != nil {
		return fmt.Errorf("postgres: reset: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) Create(ctx context.Context, rec dataset.Record) (int64, error) {
	_, err := a.conn.Exec(ctx,
		`INSERT INTO records (id, name, price, quantity) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, quantity = EXCLUDED.quantity`,
		rec.Seq, rec.Name, rec.Price, rec.Quantity)
	if err != nil {
		return 0, fmt.Errorf("postgres: create record %d: %w", rec.Seq, err)
	}
	return rec.Seq, nil
}

func (a *PostgresAdapter) Read(ctx context.Context, seq int64) (dataset.Record, error) {
	rec := dataset.Record{Seq: seq}
	err := a.conn.QueryRow(ctx,
		"SELECT name, price, quantity FROM records WHERE id = $1", seq).
		Scan(&rec.Name, &rec.Price, &rec.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return dataset.Record{}, fmt.Errorf("postgres: read record %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("postgres: read record %d: %w", seq, err)
	}
	return rec, nil
}

func (a *PostgresAdapter) Update(ctx context.Context, seq int64, patch dataset.Patch) error {
	tag, err := a.conn.Exec(ctx,
		"UPDATE records SET name = $1, price = $2, quantity = $3 WHERE id = $4",
		patch.Name, patch.Price, patch.Quantity, seq)
	if err != nil {
		return fmt.Errorf("postgres: update record %d: %w", seq, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: update record %d: %w", seq, ErrNotFound)
	}
	return nil
}

func (a *PostgresAdapter) Delete(ctx context.Context, seq int64) error {
	tag, err := a.conn.Exec(ctx, "DELETE FROM records WHERE id = $1", seq)
	if err != nil {
		return fmt.Errorf("postgres: delete record %d: %w", seq, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: delete record %d: %w", seq, ErrNotFound)
	}
	return nil
}
