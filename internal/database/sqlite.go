package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// SQLiteAdapter is the embedded-relational backend, backed by a local
// database file.
type SQLiteAdapter struct {
	db *sql.DB
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		quantity INTEGER NOT NULL
	);
`

func (a *SQLiteAdapter) Name() string { return "sqlite" }

func (a *SQLiteAdapter) Connect(ctx context.Context, cfg config.Config) error {
	db, err := sql.Open("sqlite3", cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("sqlite: open %s: %w", cfg.SQLite.Path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: ping %s: %w", cfg.SQLite.Path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	a.db = db
	return nil
}

func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

// Reset drops and recreates the records table, which also clears any rowid
// state so cold runs start from the same baseline.
func (a *SQLiteAdapter) Reset(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "DROP TABLE IF EXISTS records"); err != nil {
		return fmt.Errorf("sqlite: reset: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("sqlite: reset: %w", err)
	}
	return nil
}

func (a *SQLiteAdapter) Create(ctx context.Context, rec dataset.Record) (int64, error) {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO records (id, name, price, quantity) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price, quantity = excluded.quantity`,
		rec.Seq, rec.Name, rec.Price, rec.Quantity)
	if err != nil {
		return 0, fmt.Errorf("sqlite: create record %d: %w", rec.Seq, err)
	}
	return rec.Seq, nil
}

func (a *SQLiteAdapter) Read(ctx context.Context, seq int64) (dataset.Record, error) {
	rec := dataset.Record{Seq: seq}
	err := a.db.QueryRowContext(ctx,
		"SELECT name, price, quantity FROM records WHERE id = ?", seq).
		Scan(&rec.Name, &rec.Price, &rec.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return dataset.Record{}, fmt.Errorf("sqlite: read record %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("sqlite: read record %d: %w", seq, err)
	}
	return rec, nil
}

func (a *SQLiteAdapter) Update(ctx context.Context, seq int64, patch dataset.Patch) error {
	res, err := a.db.ExecContext(ctx,
		"UPDATE records SET name = ?, price = ?, quantity = ? WHERE id = ?",
		patch.Name, patch.Price, patch.Quantity, seq)
	if err != nil {
		return fmt.Errorf("sqlite: update record %d: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update record %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: update record %d: %w", seq, ErrNotFound)
	}
	return nil
}

func (a *SQLiteAdapter) Delete(ctx context.Context, seq int64) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", seq)
	if err != nil {
		return fmt.Errorf("sqlite: delete record %d: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete record %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: delete record %d: %w", seq, ErrNotFound)
	}
	return nil
}
