// Package services holds the dashboard core shared by every front-end.
//
// DashboardService owns the immutable dataset store and the Year Index computed
// from it. Each selection goes through the same pipeline:
//
//	requested year → ResolveYear → FilterByYear → ComputeKPIs → chart specs
//
// The server-rendered pages, the live websocket view and the report CLI all
// call Snapshot, tagging the call with their front-end name so recomputations
// can be told apart in logs and metrics.
//
// HealthService reports liveness, readiness and version information.
package services
