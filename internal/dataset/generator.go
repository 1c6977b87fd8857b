package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidSize is returned when a dataset of zero or negative size is requested.
var ErrInvalidSize = errors.New("dataset size must be positive")

// Record is one synthetic catalogue item. Seq is the addressing key every
// backend uses, so it must be unique within a generated dataset.
type Record struct {
	Seq      int64
	Name     string
	Price    float64
	Quantity int
}

// Patch is the mutation applied during the update phase. All three mutable
// fields are overwritten; Seq never changes.
type Patch struct {
	Name     string
	Price    float64
	Quantity int
}

// fieldSeed fixes the PRNG so every run and every backend sees byte-identical
// field content for a given size.
const fieldSeed = 20250825

// Generate produces exactly size records with sequence numbers 1..size in order.
func Generate(size int) ([]Record, error) {
	if size <= 0 {
		return nil, fmt.Errorf("generate %d records: %w", size, ErrInvalidSize)
	}

	rng := rand.New(rand.NewSource(fieldSeed))
	records := make([]Record, size)
	for i := range records {
		records[i] = Record{
			Seq:      int64(i + 1),
			Name:     fmt.Sprintf("record-%d", i+1),
			Price:    float64(rng.Intn(10000)) / 100,
			Quantity: rng.Intn(1000),
		}
	}
	return records, nil
}

// PatchFor derives the update-phase mutation for a record. Deterministic so
// repeated passes apply the same logical write.
func PatchFor(r Record) Patch {
	return Patch{
		Name:     r.Name + "-updated",
		Price:    r.Price + 1,
		Quantity: r.Quantity + 1,
	}
}
