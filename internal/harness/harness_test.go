package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureSampleCount(t *testing.T) {
	tests := []struct {
		name    string
		repeats int
	}{
		{"once", 1},
		{"three", 3},
		{"many", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			summary, err := Measure(func() error {
				calls++
				return nil
			}, tt.repeats)
			require.NoError(t, err)

			assert.Equal(t, tt.repeats, calls, "op must run exactly repeats times")
			assert.Equal(t, tt.repeats, summary.Count)
			assert.Len(t, summary.Samples, tt.repeats)
		})
	}
}

func TestMeasureStatisticsOrdering(t *testing.T) {
	summary, err := Measure(func() error {
		time.Sleep(time.Millisecond)
		return nil
	}, 7)
	require.NoError(t, err)

	assert.LessOrEqual(t, summary.Min, summary.Median)
	assert.LessOrEqual(t, summary.Median, summary.Max)
	assert.LessOrEqual(t, summary.Min, summary.Mean)
	assert.LessOrEqual(t, summary.Mean, summary.Max)
	assert.Greater(t, summary.Min, time.Duration(0))
}

func TestMeasureInvalidRepeats(t *testing.T) {
	for _, repeats := range []int{0, -1} {
		summary, err := Measure(func() error { return nil }, repeats)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRepeats))
		assert.Nil(t, summary, "no partial summary on invalid input")
	}
}

func TestMeasureFailurePropagates(t *testing.T) {
	boom := errors.New("backend exploded")
	calls := 0
	summary, err := Measure(func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom), "wrapped cause must be preserved")
	assert.Contains(t, err.Error(), "repetition 3", "failure must identify the repetition")
	assert.Equal(t, 3, calls, "no retries after a failure")
	assert.Nil(t, summary, "no partial summary on failure")
}

func TestSummarizeEvenCountMedian(t *testing.T) {
	samples := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
		40 * time.Millisecond,
	}
	summary := summarize(samples)

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 10*time.Millisecond, summary.Min)
	assert.Equal(t, 40*time.Millisecond, summary.Max)
	// Even sample count averages the two middle values.
	assert.InDelta(t, (25 * time.Millisecond).Seconds(), summary.Median.Seconds(), 1e-9)
	assert.InDelta(t, (25 * time.Millisecond).Seconds(), summary.Mean.Seconds(), 1e-9)
}
