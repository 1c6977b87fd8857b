package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"single", 1},
		{"small", 5},
		{"hundred", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Generate(tt.size)
			require.NoError(t, err)
			require.Len(t, records, tt.size)

			for i, rec := range records {
				assert.Equal(t, int64(i+1), rec.Seq, "sequence numbers must be 1..size in order")
				assert.NotEmpty(t, rec.Name)
				assert.GreaterOrEqual(t, rec.Price, 0.0)
				assert.GreaterOrEqual(t, rec.Quantity, 0)
			}
		})
	}
}

func TestGenerateUniqueSequenceNumbers(t *testing.T) {
	records, err := Generate(500)
	require.NoError(t, err)

	seen := make(map[int64]bool, len(records))
	for _, rec := range records {
		assert.False(t, seen[rec.Seq], "duplicate sequence number %d", rec.Seq)
		seen[rec.Seq] = true
	}
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := Generate(50)
	require.NoError(t, err)
	second, err := Generate(50)
	require.NoError(t, err)

	assert.Equal(t, first, second, "every run must produce identical records")
}

func TestGenerateInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		_, err := Generate(size)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSize))
	}
}

func TestPatchForDeterministic(t *testing.T) {
	records, err := Generate(3)
	require.NoError(t, err)

	rec := records[1]
	patch := PatchFor(rec)
	assert.Equal(t, patch, PatchFor(rec))
	assert.NotEqual(t, rec.Name, patch.Name)
	assert.Equal(t, rec.Price+1, patch.Price)
	assert.Equal(t, rec.Quantity+1, patch.Quantity)
}
