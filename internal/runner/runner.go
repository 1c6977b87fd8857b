// Package runner drives one full benchmark cycle: adapter selection,
// connection, optional cold reset, dataset generation, the four timed CRUD
// phases, and report persistence.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crud-benchmark/internal/config"
	"crud-benchmark/internal/database"
	"crud-benchmark/internal/dataset"
	"crud-benchmark/internal/harness"
	"crud-benchmark/internal/report"
)

type Runner struct {
	cfg    config.Config
	logger *zap.Logger
}

func New(cfg config.Config, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes one benchmark cycle against the configured backend and
// returns the persisted report row and the path it was written to.
func (r *Runner) Run(ctx context.Context) (*report.Row, string, error) {
	adapter, err := database.New(r.cfg.Backend)
	if err != nil {
		return nil, "", err
	}
	return r.runWith(ctx, adapter)
}

func (r *Runner) runWith(ctx context.Context, adapter database.Adapter) (_ *report.Row, _ string, err error) {
	if err := adapter.Connect(ctx, r.cfg); err != nil {
		return nil, "", err
	}
	// The handle is released on every exit path, including phase failures.
	defer func() {
		if cerr := adapter.Close(); cerr != nil {
			r.logger.Warn("failed to close adapter",
				zap.String("backend", adapter.Name()), zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}()

	if r.cfg.Mode == config.ModeCold {
		if err := adapter.Reset(ctx); err != nil {
			return nil, "", err
		}
		r.logger.Info("reset backend state", zap.String("backend", adapter.Name()))
	}

	records, err := dataset.Generate(r.cfg.DatasetSize)
	if err != nil {
		return nil, "", err
	}
	if r.cfg.Subset > 0 && r.cfg.Subset < len(records) {
		records = records[:r.cfg.Subset]
	}

	row := &report.Row{
		Timestamp:   time.Now(),
		RunID:       uuid.New().String(),
		Backend:     adapter.Name(),
		Mode:        r.cfg.Mode,
		DatasetSize: r.cfg.DatasetSize,
		Repeats:     r.cfg.Repeats,
	}

	// Phase order is fixed: create must precede the phases that address the
	// records it inserted.
	phases := []struct {
		name string
		dest **harness.Summary
		op   func(context.Context, database.Adapter, []dataset.Record) (int, error)
	}{
		{"create", &row.Create, createPass},
		{"read", &row.Read, readPass},
		{"update", &row.Update, updatePass},
		{"delete", &row.Delete, deletePass},
	}

	for _, phase := range phases {
		misses := 0
		summary, err := harness.Measure(func() error {
			n, err := phase.op(ctx, adapter, records)
			misses += n
			return err
		}, r.cfg.Repeats)
		if err != nil {
			return nil, "", fmt.Errorf("backend %s: phase %s: %w", adapter.Name(), phase.name, err)
		}
		*phase.dest = summary

		fields := []zap.Field{
			zap.String("backend", adapter.Name()),
			zap.String("phase", phase.name),
			zap.Int("samples", summary.Count),
			zap.Duration("mean", summary.Mean),
			zap.Duration("median", summary.Median),
			zap.Duration("min", summary.Min),
			zap.Duration("max", summary.Max),
		}
		if misses > 0 {
			fields = append(fields, zap.Int("not_found", misses))
		}
		r.logger.Info("phase complete", fields...)
	}

	writer := &report.Writer{Dir: r.cfg.ResultsDir}
	path, err := writer.Write(row)
	if err != nil {
		return nil, "", err
	}
	r.logger.Info("run complete",
		zap.String("backend", adapter.Name()),
		zap.String("mode", r.cfg.Mode),
		zap.Int("records", r.cfg.DatasetSize),
		zap.String("report", path))
	return row, path, nil
}

// Each pass applies one CRUD primitive to every record and is timed as a
// single harness sample. A missing record during read/update/delete is
// counted, not fatal: warm-mode and repeated delete passes legitimately hit
// keys that no longer exist. Any other error aborts the pass.

func createPass(ctx context.Context, adapter database.Adapter, records []dataset.Record) (int, error) {
	for _, rec := range records {
		if _, err := adapter.Create(ctx, rec); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

func readPass(ctx context.Context, adapter database.Adapter, records []dataset.Record) (int, error) {
	misses := 0
	for _, rec := range records {
		if _, err := adapter.Read(ctx, rec.Seq); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				misses++
				continue
			}
			return misses, err
		}
	}
	return misses, nil
}

func updatePass(ctx context.Context, adapter database.Adapter, records []dataset.Record) (int, error) {
	misses := 0
	for _, rec := range records {
		if err := adapter.Update(ctx, rec.Seq, dataset.PatchFor(rec)); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				misses++
				continue
			}
			return misses, err
		}
	}
	return misses, nil
}

func deletePass(ctx context.Context, adapter database.Adapter, records []dataset.Record) (int, error) {
	misses := 0
	for _, rec := range records {
		if err := adapter.Delete(ctx, rec.Seq); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				misses++
				continue
			}
			return misses, err
		}
	}
	return misses, nil
}
