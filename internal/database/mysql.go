package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// MySQLAdapter is the server-relational backend.
type MySQLAdapter struct {
	db *sql.DB
}

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		quantity INT NOT NULL
	)
`

func (a *MySQLAdapter) Name() string { return "mysql" }

func (a *MySQLAdapter) Connect(ctx context.Context, cfg config.Config) error {
	db, err := sql.Open("mysql", cfg.MySQL.DSN())
	if err != nil {
		return fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("mysql: ping %s:%d: %w", cfg.MySQL.Host, cfg.MySQL.Port, err)
	}
	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		db.Close()
		return fmt.Errorf("mysql: ensure schema: %w", err)
	}
	a.db = db
	return nil
}

func (a *MySQLAdapter) Close() error {
	return a.db.Close()
}

// Reset truncates the records table, which also resets the identity counter.
// Only the benchmark's own table is touched.
func (a *MySQLAdapter) Reset(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "TRUNCATE TABLE records"); err != nil {
		return fmt.Errorf("mysql: reset: %w", err)
	}
	return nil
}

func (a *MySQLAdapter) Create(ctx context.Context, rec dataset.Record) (int64, error) {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO records (id, name, price, quantity) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price), quantity = VALUES(quantity)`,
		rec.Seq, rec.Name, rec.Price, rec.Quantity)
	if err != nil {
		return 0, fmt.Errorf("mysql: create record %d: %w", rec.Seq, err)
	}
	return rec.Seq, nil
}

func (a *MySQLAdapter) Read(ctx context.Context, seq int64) (dataset.Record, error) {
	rec := dataset.Record{Seq: seq}
	err := a.db.QueryRowContext(ctx,
		"SELECT name, price, quantity FROM records WHERE id = ?", seq).
		Scan(&rec.Name, &rec.Price, &rec.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return dataset.Record{}, fmt.Errorf("mysql: read record %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return dataset.Record{}, fmt.Errorf("mysql: read record %d: %w", seq, err)
	}
	return rec, nil
}

func (a *MySQLAdapter) Update(ctx context.Context, seq int64, patch dataset.Patch) error {
	res, err := a.db.ExecContext(ctx,
		"UPDATE records SET name = ?, price = ?, quantity = ? WHERE id = ?",
		patch.Name, patch.Price, patch.Quantity, seq)
	if err != nil {
		return fmt.Errorf("mysql: update record %d: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql: update record %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("mysql: update record %d: %w", seq, ErrNotFound)
	}
	return nil
}

func (a *MySQLAdapter) Delete(ctx context.Context, seq int64) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", seq)
	if err != nil {
		return fmt.Errorf("mysql: delete record %d: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql: delete record %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("mysql: delete record %d: %w", seq, ErrNotFound)
	}
	return nil
}
