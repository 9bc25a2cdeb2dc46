// Package analytics derives year-scoped views from the immutable dataset store
// and reduces them to the dashboard KPIs and chart series.
//
// Every function here is pure: inputs are never mutated and an empty input
// always yields a defined zero result.
package analytics
