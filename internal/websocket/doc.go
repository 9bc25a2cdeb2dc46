// Package websocket serves the reactive front-end. Every connection is an
// independent session: the browser sends a year selection and the server
// answers with a full dashboard snapshot for that session only. The Hub
// tracks open sessions for health checks, metrics and shutdown.
package websocket
