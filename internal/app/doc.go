// Package app wires the logistics dashboard together and manages its lifecycle.
//
// New builds every component from a loaded configuration in dependency order:
//
//  1. OpenTelemetry providers and the dashboard instruments
//  2. The dataset store (orders, freight and warehouse costs)
//  3. The chart renderer and the dashboard service
//  4. The live-view websocket hub and the health service
//  5. The chi router and the HTTP server
//
// The router serves two front-ends over the same dashboard service: the
// server-rendered pages under / and the reactive live view that talks to /ws.
// JSON, chart and export endpoints live under /api and the Prometheus scrape
// endpoint at /metrics.
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
