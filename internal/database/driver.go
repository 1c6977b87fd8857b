package database

import (
	"context"
	"errors"
	"fmt"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/dataset"
)

// ErrNotFound is returned by Read, Update, and Delete when no record exists
// under the given sequence number.
var ErrNotFound = errors.New("record not found")

// Adapter is the uniform CRUD capability set every backend implements. All
// backends address records by the record's sequence number so the runner and
// timing harness stay backend-agnostic.
type Adapter interface {
	Connect(ctx context.Context, cfg config.Config) error
	// Reset clears the benchmark's own table/collection/key-prefix, never
	// unrelated data. Idempotent.
	Reset(ctx context.Context) error
	// Create is a keyed write: inserting the same sequence number again
	// overwrites, so repeated benchmark passes stay valid.
	Create(ctx context.Context, rec dataset.Record) (int64, error)
	Read(ctx context.Context, seq int64) (dataset.Record, error)
	Update(ctx context.Context, seq int64, patch dataset.Patch) error
	Delete(ctx context.Context, seq int64) error
	Close() error
	Name() string
}

// registry maps backend identifiers to adapter constructors. Resolved once at
// startup by the runner, never re-checked per call.
var registry = map[string]func() Adapter{
	"sqlite":   func() Adapter { return &SQLiteAdapter{} },
	"mysql":    func() Adapter { return &MySQLAdapter{} },
	"postgres": func() Adapter { return &PostgresAdapter{} },
	"mongo":    func() Adapter { return &MongoAdapter{} },
	"redis":    func() Adapter { return &RedisAdapter{} },
}

// New returns a fresh, unconnected adapter for the named backend.
func New(backend string) (Adapter, error) {
	ctor, ok := registry[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported backend: %q", backend)
	}
	return ctor(), nil
}

// Backends lists the registered backend identifiers, for CLI usage text.
func Backends() []string {
	return []string{"sqlite", "mysql", "postgres", "mongo", "redis"}
}
