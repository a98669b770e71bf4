// Package matrix builds and runs parameterized test matrices.
//
// A matrix is the Cartesian product of endpoints, request types, payload
// sizes and concurrency levels. [Build] enumerates it in a fixed nested
// order, [Select] applies a full or fractional design, and [Runner] runs
// each entry as its own benchmark, strictly one after another, producing one
// [Row] per entry in processing order.
package matrix
