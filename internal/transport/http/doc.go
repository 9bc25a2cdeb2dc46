// Package http implements the HTTP handlers of the logistics dashboard.
// Handlers are thin: they parse and validate the request, call the
// dashboard service and translate its errors into RFC 7807 responses.
//
// # Routes
//
//	GET /                          overview page (whole-dataset KPIs, selector, charts)
//	GET /orders, /freight, /warehouse
//	                               one chart page each
//	GET /live                      page bound to the /ws session
//	GET /api/years                 Year Index and default selection
//	GET /api/dashboard?year=       KPIs and chart specs of a selection
//	GET /api/charts/{kind}.{fmt}   rendered chart image (svg or png)
//	GET /api/export/{fmt}          csv table or xlsx workbook of a selection
//	POST /api/logs                 browser error reports
//	GET /api/health[/ready|/live], /api/version
//	GET /metrics                   Prometheus scrape
//
// Chart images and exports are rendered into a buffer before the first byte
// is written, so a failure still produces a problem response.
package http
