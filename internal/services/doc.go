// Package services contains the business layer between the HTTP handlers and
// the data pipeline.
//
// DashboardService runs the pipeline (load, summarise, aggregate, sample,
// build) against the configured data file and memoises the resulting
// dashboard for as long as the underlying table stays the same. Exports and
// single-chart lookups reuse that dashboard.
//
// HealthService answers liveness, readiness and version probes. Readiness
// depends on the data file being present.
//
// Services take their collaborators through constructors and log through a
// component-scoped slog.Logger:
//
//	store := marketdata.NewStore(nil, logger, metrics)
//	svc := services.NewDashboardService(store, cfg.Data, dataFile, logger, metrics)
//	dashboard, err := svc.Dashboard(ctx)
//
// Pipeline failures are returned unchanged so the transport layer can map
// them to problem details with errors.Is and errors.As.
package services
