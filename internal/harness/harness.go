// Package harness standardizes how a single benchmark operation is repeated,
// timed, and reduced to summary statistics, independent of which backend the
// operation talks to.
package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/montanaflynn/stats"
)

// ErrInvalidRepeats is returned when a non-positive repeat count is requested.
var ErrInvalidRepeats = errors.New("repeat count must be positive")

// Summary holds the reduced statistics for one benchmark phase. All values
// are derived from the full sample set and never mutated after Measure
// returns.
type Summary struct {
	Count  int
	Mean   time.Duration
	Median time.Duration
	Min    time.Duration
	Max    time.Duration
	P95    time.Duration
	P99    time.Duration

	// Samples are the raw per-repetition durations, in capture order.
	Samples []time.Duration
}

// Measure invokes op exactly repeats times, sequentially, and reduces the
// captured wall-clock durations. There are no retries: the first failure is
// returned immediately, wrapped with its repetition index, and no summary is
// produced.
func Measure(op func() error, repeats int) (*Summary, error) {
	if repeats <= 0 {
		return nil, fmt.Errorf("measure with %d repeats: %w", repeats, ErrInvalidRepeats)
	}

	samples := make([]time.Duration, 0, repeats)
	for i := 0; i < repeats; i++ {
		start := time.Now()
		if err := op(); err != nil {
			return nil, fmt.Errorf("repetition %d: %w", i+1, err)
		}
		samples = append(samples, time.Since(start))
	}

	return summarize(samples), nil
}

func summarize(samples []time.Duration) *Summary {
	// Max latency 10s, 3 significant figures, values in microseconds.
	histogram := hdrhistogram.New(1, 10000000000, 3)
	seconds := make([]float64, len(samples))
	for i, d := range samples {
		seconds[i] = d.Seconds()
		histogram.RecordValue(d.Microseconds())
	}

	mean, _ := stats.Mean(seconds)
	median, _ := stats.Median(seconds)
	min, _ := stats.Min(seconds)
	max, _ := stats.Max(seconds)

	return &Summary{
		Count:   len(samples),
		Mean:    secondsToDuration(mean),
		Median:  secondsToDuration(median),
		Min:     secondsToDuration(min),
		Max:     secondsToDuration(max),
		P95:     time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:     time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond,
		Samples: samples,
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
