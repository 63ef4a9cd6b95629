// Package stats computes the descriptive statistics shown for a filtered
// table: popular travel times, popular stations and routes, trip durations
// and user breakdowns.
//
// Every aggregator is a pure function of its input table. An empty table
// yields an error wrapping errors.ErrEmptyResult instead of a partial result.
// Summarize runs all four aggregators concurrently and records per-section
// timings.
package stats
