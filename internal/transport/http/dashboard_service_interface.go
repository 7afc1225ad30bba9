package http

import (
	"context"
	"io"

	"marketpulse/internal/services"
	"marketpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	KPIs(ctx context.Context) (domain.KPISummary, domain.SourceInfo, error)
	Chart(ctx context.Context, name string) (domain.ChartRequest, domain.SourceInfo, error)
	Page(ctx context.Context) services.PageState
	WriteMonthlyCSV(ctx context.Context, out io.Writer) error
	WriteWorkbook(ctx context.Context, out io.Writer) error
}
