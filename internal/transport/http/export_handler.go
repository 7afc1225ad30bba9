package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "marketpulse/internal/errors"
	"marketpulse/internal/exporter"
	"marketpulse/internal/services"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler serves downloadable exports of the dashboard data
type ExportHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the routes mounted at /api/export
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/"+exporter.MonthlyFileName, h.MonthlyCSV)
	r.Get("/"+exporter.WorkbookFileName, h.Workbook)
	return r
}

// MonthlyCSV handles GET /api/export/timeseries.csv
func (h *ExportHandler) MonthlyCSV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, exporter.MonthlyFileName, contentTypeCSV, h.service.WriteMonthlyCSV)
}

// Workbook handles GET /api/export/dashboard.xlsx
func (h *ExportHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, exporter.WorkbookFileName, contentTypeXLSX, h.service.WriteWorkbook)
}

// serve buffers the export so a failure can still be reported as a problem
func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, filename, contentType string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(r.Context(), &buf); err != nil {
		if errors.Is(err, services.ErrNoDataSource) {
			err = apierrors.ErrServiceUnavailable
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "serving export",
		slog.String("file", filename),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
