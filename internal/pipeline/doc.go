// Package pipeline fans indexed jobs out to a fixed pool of worker goroutines
// and joins them before returning.
//
// Jobs are identified by index, so callers write results into a pre-sized
// slice and never depend on completion order. The first failure cancels the
// remaining jobs and is returned; there are no partial results.
package pipeline
