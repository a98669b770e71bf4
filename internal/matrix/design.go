package matrix

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

var (
	// ErrInvalidFraction is returned when a sample fraction is outside [0, 1].
	ErrInvalidFraction = errors.New("matrix: fraction must be between 0 and 1")
	// ErrUnknownDesign is returned for a design other than full or fractional.
	ErrUnknownDesign = errors.New("matrix: unknown design")
)

// Design selects which entries of a matrix are run.
type Design string

const (
	DesignFull       Design = "full"
	DesignFractional Design = "fractional"
)

// ParseDesign accepts "full", "fractional" or an empty string (full).
func ParseDesign(s string) (Design, error) {
	switch Design(strings.ToLower(strings.TrimSpace(s))) {
	case "", DesignFull:
		return DesignFull, nil
	case DesignFractional:
		return DesignFractional, nil
	default:
		return "", fmt.Errorf("%w %q (use full or fractional)", ErrUnknownDesign, s)
	}
}

// Sample draws floor(len(entries)*fraction) entries uniformly at random
// without replacement. The input is not modified and the result order is
// unspecified.
func Sample(entries []Entry, fraction float64, rnd *rand.Rand) ([]Entry, error) {
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidFraction, fraction)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	n := int(float64(len(entries)) * fraction)
	pool := append([]Entry(nil), entries...)
	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	for i := 0; i < n; i++ {
		j := i + rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

// Select applies design to entries. The full design returns entries
// unchanged; the fractional design samples them.
func Select(design Design, entries []Entry, fraction float64, rnd *rand.Rand) ([]Entry, error) {
	switch design {
	case "", DesignFull:
		return entries, nil
	case DesignFractional:
		return Sample(entries, fraction, rnd)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDesign, design)
	}
}
