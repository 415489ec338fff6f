package dataframe

import (
	"fmt"
	"math"
	"time"

	"github.com/paveg/cub/internal/errors"
	"golang.org/x/exp/rand"
)

// SampleOptions configures Sample. Exactly one of N and Frac must be set.
type SampleOptions struct {
	N       int
	Frac    float64
	Replace bool
	// Seed makes the draw reproducible. Zero seeds from the clock.
	Seed uint64
}

// Sample returns randomly chosen rows
func (df *DataFrame) Sample(opts SampleOptions) (*DataFrame, error) {
	const op = "Sample"
	switch {
	case opts.N < 0:
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("N must be non-negative, got %d", opts.N))
	case math.IsNaN(opts.Frac) || math.IsInf(opts.Frac, 0):
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("Frac must be finite, got %g", opts.Frac))
	case opts.Frac < 0:
		return nil, errors.NewInvalidInputError(op, fmt.Sprintf("Frac must be positive, got %g", opts.Frac))
	case opts.N > 0 && opts.Frac > 0:
		return nil, errors.NewInvalidInputError(op, "set only one of N and Frac")
	case opts.N == 0 && opts.Frac == 0:
		return nil, errors.NewInvalidInputError(op, "one of N and Frac is required")
	}

	rows := df.Len()
	n := opts.N
	if opts.Frac > 0 {
		count := opts.Frac * float64(rows)
		if count > math.MaxInt32 {
			return nil, errors.NewInvalidInputError(op, fmt.Sprintf("Frac %g draws too many rows", opts.Frac))
		}
		n = int(count)
	}
	if !opts.Replace && n > rows {
		return nil, errors.NewInvalidInputError(op,
			fmt.Sprintf("cannot take %d rows from %d without replacement", n, rows))
	}
	if rows == 0 && n > 0 {
		return nil, errors.NewInvalidInputError(op, "cannot sample from an empty DataFrame")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	var picked []int
	if opts.Replace {
		picked = make([]int, n)
		for i := range picked {
			picked[i] = rng.Intn(rows)
		}
	} else {
		picked = rng.Perm(rows)[:n]
	}
	return df.takeRows(df.order, picked), nil
}
