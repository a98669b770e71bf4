package matrix

import (
	"github.com/torosent/loadbench/internal/config"
)

// Entry is one combination of the matrix dimensions.
type Entry struct {
	Endpoint    string
	RequestType string
	PayloadSize int
	Concurrency int
}

// Dimensions are the lists the matrix is built from.
type Dimensions struct {
	Endpoints         []string
	RequestTypes      []string
	PayloadSizes      []int
	ConcurrencyLevels []int
}

// DimensionsFromConfig extracts the matrix dimensions of cfg.
func DimensionsFromConfig(cfg *config.MatrixConfig) Dimensions {
	if cfg == nil {
		return Dimensions{}
	}
	return Dimensions{
		Endpoints:         cfg.Endpoints,
		RequestTypes:      cfg.RequestTypes,
		PayloadSizes:      cfg.PayloadSizes,
		ConcurrencyLevels: cfg.ConcurrencyLevels,
	}
}

// Size is the number of entries Build returns for d.
func (d Dimensions) Size() int {
	return len(d.Endpoints) * len(d.RequestTypes) * len(d.PayloadSizes) * len(d.ConcurrencyLevels)
}

// Build returns the Cartesian product of d. Endpoint varies slowest and
// concurrency fastest.
func Build(d Dimensions) []Entry {
	entries := make([]Entry, 0, d.Size())
	for _, endpoint := range d.Endpoints {
		for _, requestType := range d.RequestTypes {
			for _, size := range d.PayloadSizes {
				for _, concurrency := range d.ConcurrencyLevels {
					entries = append(entries, Entry{
						Endpoint:    endpoint,
						RequestType: requestType,
						PayloadSize: size,
						Concurrency: concurrency,
					})
				}
			}
		}
	}
	return entries
}
