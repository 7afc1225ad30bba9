// Package http implements the HTTP handlers of the dashboard server.
//
// Handlers are a thin layer over the services package: they read the
// request, call a service and write the response. They hold no state of
// their own beyond their collaborators.
//
// # Routes
//
//	GET /                           HTML dashboard page
//	GET /static/*                   embedded scripts and styles
//	GET /api/dashboard              full dashboard render instructions
//	GET /api/dashboard/kpis         headline KPI summary
//	GET /api/charts/{name}          one chart (timeseries, scatter, box)
//	GET /api/export/timeseries.csv  monthly totals as CSV
//	GET /api/export/dashboard.xlsx  KPI and monthly workbook
//	POST /api/logs                  browser-side error reports
//	GET /api/health[/ready|/live]   probes
//	GET /api/version                build information
//
// # Error Handling
//
// API errors are written as RFC 7807 problem details through
// errors.ErrorHandler, so a missing data file becomes a 404 and a malformed
// one a 422:
//
//	{
//	    "type": "/errors/data/schema",
//	    "title": "Invalid Data File",
//	    "status": 422,
//	    "missing": ["country"],
//	    "instance": "/api/dashboard"
//	}
//
// The HTML page never returns a problem document. When the pipeline halts it
// renders the error banner alone.
//
// # Caching
//
// JSON responses carry the data file fingerprint as a weak ETag and answer
// a matching If-None-Match with 304 Not Modified.
package http
