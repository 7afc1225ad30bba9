package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"marketpulse/internal/analytics"
	"marketpulse/internal/charts"
	"marketpulse/internal/config"
	apierrors "marketpulse/internal/errors"
	"marketpulse/internal/exporter"
	"marketpulse/internal/infrastructure"
	"marketpulse/internal/marketdata"
	"marketpulse/pkg/contracts/domain"
)

// TableSource yields the current table for a data file. *marketdata.Store
// satisfies it.
type TableSource interface {
	Get(ctx context.Context, path string) (*marketdata.Table, error)
}

// TableSourceFunc adapts a load function, such as (*marketdata.Loader).Load,
// to TableSource. Every call reads the file again.
type TableSourceFunc func(ctx context.Context, path string) (*marketdata.Table, error)

// Get calls f.
func (f TableSourceFunc) Get(ctx context.Context, path string) (*marketdata.Table, error) {
	return f(ctx, path)
}

// PageState is what the HTML page renders: either a dashboard or the
// message of the error that halted the pipeline.
type PageState struct {
	Dashboard *domain.Dashboard
	Error     string
	Err       error
}

// Halted reports whether the pipeline stopped before producing a dashboard.
func (p PageState) Halted() bool {
	return p.Dashboard == nil
}

// DashboardService runs the analytics pipeline for one data file.
type DashboardService struct {
	source     TableSource
	dataFile   string
	sampleSize int
	sampleSeed int64
	logger     *slog.Logger
	metrics    *infrastructure.DashboardMetrics
	tracer     trace.Tracer

	mu        sync.Mutex
	lastTable *marketdata.Table
	last      domain.Dashboard
}

// NewDashboardService creates a dashboard service reading dataFile through source.
func NewDashboardService(source TableSource, cfg config.DataConfig, dataFile string, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DashboardService{
		source:     source,
		dataFile:   dataFile,
		sampleSize: cfg.SampleSize,
		sampleSeed: cfg.SampleSeed,
		logger:     infrastructure.WithComponent(logger, "dashboard_service"),
		metrics:    metrics,
		tracer:     otel.Tracer(infrastructure.InstrumentationName),
	}
}

// DataFile returns the data file path the service reads.
func (s *DashboardService) DataFile() string {
	return s.dataFile
}

// Dashboard returns the dashboard for the current contents of the data file.
// The build is repeated only when the store hands back a different table.
func (s *DashboardService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "services.Dashboard",
		trace.WithAttributes(attribute.String("data.file", s.dataFile)))
	defer span.End()

	if s.source == nil {
		return domain.Dashboard{}, ErrNoDataSource
	}

	table, err := s.source.Get(ctx, s.dataFile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "Dashboard pipeline halted",
			slog.String("data_file", s.dataFile),
			slog.String("error", err.Error()))
		return domain.Dashboard{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastTable == table {
		span.SetAttributes(attribute.Bool("dashboard.reused", true))
		return s.last, nil
	}

	dashboard, err := s.build(ctx, table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Dashboard{}, err
	}

	s.lastTable = table
	s.last = dashboard
	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, table *marketdata.Table) (domain.Dashboard, error) {
	start := time.Now()

	summary, err := analytics.Summarize(table)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("summarize %s: %w", table.Path(), err)
	}

	dashboard := charts.Build(charts.Input{
		Summary: summary,
		Monthly: analytics.MonthlyTotals(table),
		Sample:  analytics.Sample(table, s.sampleSize, s.sampleSeed),
		Rows:    table.Rows(),
		Source:  table.Source(),
	})

	if s.metrics != nil {
		s.metrics.DashboardBuilds.Add(ctx, 1, metric.WithAttributes(
			attribute.String("data.file", table.Path())))
	}
	s.logger.InfoContext(ctx, "Dashboard built",
		slog.Int("rows", table.Len()),
		slog.Int("months", len(dashboard.Monthly)),
		slog.Int("sample_rows", dashboard.Scatter.RowCount),
		slog.Duration("duration", time.Since(start)))

	return dashboard, nil
}

// KPIs returns the headline summary of the current dashboard.
func (s *DashboardService) KPIs(ctx context.Context) (domain.KPISummary, domain.SourceInfo, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return domain.KPISummary{}, domain.SourceInfo{}, err
	}
	return d.Summary, d.Source, nil
}

// Chart returns one chart request by name.
func (s *DashboardService) Chart(ctx context.Context, name string) (domain.ChartRequest, domain.SourceInfo, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return domain.ChartRequest{}, domain.SourceInfo{}, err
	}
	chart, ok := charts.Chart(d, name)
	if !ok {
		return domain.ChartRequest{}, domain.SourceInfo{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return chart, d.Source, nil
}

// Page runs the pipeline for the HTML page. A halt is reported through
// PageState rather than as an error.
func (s *DashboardService) Page(ctx context.Context) PageState {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return PageState{Error: marketdata.UserMessage(err), Err: err}
	}
	return PageState{Dashboard: &d}
}

// WriteMonthlyCSV streams the monthly totals of the current dashboard as CSV.
func (s *DashboardService) WriteMonthlyCSV(ctx context.Context, out io.Writer) error {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return err
	}
	if err := exporter.WriteMonthly(out, d.Monthly); err != nil {
		return apierrors.NewStorageError("write monthly csv", err)
	}
	return nil
}

// WriteWorkbook streams the KPI and monthly workbook of the current dashboard.
func (s *DashboardService) WriteWorkbook(ctx context.Context, out io.Writer) error {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return err
	}
	if err := exporter.WriteWorkbook(out, d); err != nil {
		return apierrors.NewStorageError("write workbook", err)
	}
	return nil
}

// Export writes timeseries.csv and dashboard.xlsx through w and returns the
// paths written.
func (s *DashboardService) Export(ctx context.Context, w *exporter.CSVWriter) ([]string, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	if len(d.Monthly) == 0 {
		return nil, ErrNothingToWrite
	}

	csvPath, err := w.ExportMonthly(exporter.MonthlyFileName, d.Monthly)
	if err != nil {
		return nil, apierrors.NewStorageError("export monthly csv", err).
			WithContext("file", exporter.MonthlyFileName)
	}
	xlsxPath, err := w.ExportWorkbook(exporter.WorkbookFileName, d)
	if err != nil {
		return nil, apierrors.NewStorageError("export workbook", err).
			WithContext("file", exporter.WorkbookFileName)
	}

	s.logger.InfoContext(ctx, "Dashboard exported",
		slog.String("csv", csvPath),
		slog.String("xlsx", xlsxPath))
	return []string{csvPath, xlsxPath}, nil
}
