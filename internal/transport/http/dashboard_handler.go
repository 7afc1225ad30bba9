package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "marketpulse/internal/errors"
	"marketpulse/internal/charts"
	"marketpulse/internal/services"
	"marketpulse/pkg/contracts/domain"
)

// KPIResponse is the body of GET /api/dashboard/kpis
type KPIResponse struct {
	Summary domain.KPISummary `json:"summary"`
	Cards   []domain.KPICard  `json:"cards"`
	Source  domain.SourceInfo `json:"source"`
}

// DashboardHandler handles dashboard and chart requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the routes mounted at /api/dashboard
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetDashboard)
	r.Get("/kpis", h.GetKPIs)
	return r
}

// ChartRoutes returns the routes mounted at /api/charts
func (h *DashboardHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListCharts)
	r.Route("/{name}", func(r chi.Router) {
		r.Use(h.ChartCtx)
		r.Get("/", h.GetChart)
	})
	return r
}

// ChartCtx rejects chart names that are not served.
func (h *DashboardHandler) ChartCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		for _, known := range charts.ChartNames {
			if name == known {
				next.ServeHTTP(w, r)
				return
			}
		}
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("chart "+name))
	})
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "serving dashboard",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("rows", d.Source.Rows))

	renderCachedJSON(w, r, d.Source.Fingerprint, d)
}

// GetKPIs handles GET /api/dashboard/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	summary, source, err := h.service.KPIs(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	renderCachedJSON(w, r, source.Fingerprint, KPIResponse{
		Summary: summary,
		Cards:   charts.KPICards(summary),
		Source:  source,
	})
}

// ListCharts handles GET /api/charts
func (h *DashboardHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   charts.ChartNames,
		"count":  len(charts.ChartNames),
	})
}

// GetChart handles GET /api/charts/{name}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	chart, source, err := h.service.Chart(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	renderCachedJSON(w, r, source.Fingerprint, chart)
}

// handleServiceError maps service errors to API errors and writes the problem
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownChart):
		err = apierrors.NotFoundError("chart " + chi.URLParam(r, "name"))
	case errors.Is(err, services.ErrNoDataSource):
		err = apierrors.ErrServiceUnavailable
	}
	h.errorHandler.HandleError(w, r, err)
}
