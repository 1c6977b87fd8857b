// Package report persists one summary row per benchmark run as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"crud-benchmark/internal/harness"
)

// Row is one persisted run record: identifying metadata plus the four phase
// summaries. Rows are append-only; a row is never updated in place.
type Row struct {
	Timestamp   time.Time
	RunID       string
	Backend     string
	Mode        string
	DatasetSize int
	Repeats     int

	Create *harness.Summary
	Read   *harness.Summary
	Update *harness.Summary
	Delete *harness.Summary
}

var header = []string{
	"timestamp", "run_id", "backend", "run_mode", "records", "repeats",
	"create_mean", "create_median", "create_min", "create_max", "create_p95", "create_p99",
	"read_mean", "read_median", "read_min", "read_max", "read_p95", "read_p99",
	"update_mean", "update_median", "update_min", "update_max", "update_p95", "update_p99",
	"delete_mean", "delete_median", "delete_min", "delete_max", "delete_p95", "delete_p99",
}

// Writer appends run rows to per-parameter CSV files under Dir.
type Writer struct {
	Dir string
}

// Write appends one row. The file name embeds date, backend, run mode, and
// dataset size so differently parameterized runs never share a file; a
// same-day re-run with identical parameters appends to the existing file.
// The header is written only when the file is created. Returns the file path.
func (w *Writer) Write(row *Row) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir %s: %w", w.Dir, err)
	}

	name := fmt.Sprintf("%s_%s_%s_%d.csv",
		row.Timestamp.UTC().Format("2006-01-02"), row.Backend, row.Mode, row.DatasetSize)
	path := filepath.Join(w.Dir, name)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open report %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat report %s: %w", path, err)
	}

	cw := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := cw.Write(header); err != nil {
			return "", fmt.Errorf("write report header: %w", err)
		}
	}
	if err := cw.Write(row.fields()); err != nil {
		return "", fmt.Errorf("write report row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush report %s: %w", path, err)
	}
	return path, nil
}

func (r *Row) fields() []string {
	fields := []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.RunID,
		r.Backend,
		r.Mode,
		strconv.Itoa(r.DatasetSize),
		strconv.Itoa(r.Repeats),
	}
	for _, s := range []*harness.Summary{r.Create, r.Read, r.Update, r.Delete} {
		fields = append(fields,
			formatSeconds(s.Mean),
			formatSeconds(s.Median),
			formatSeconds(s.Min),
			formatSeconds(s.Max),
			formatSeconds(s.P95),
			formatSeconds(s.P99),
		)
	}
	return fields
}

// Six decimal places: enough to distinguish sub-millisecond differences.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
