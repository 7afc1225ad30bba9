package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"marketpulse/internal/charts"
	"marketpulse/internal/config"
	"marketpulse/pkg/contracts/domain"
)

// Embedded asset layout
const (
	PageTemplate = "templates/index.html"
	StaticDir    = "static"

	// ChartScriptURL is the Plotly bundle loaded by the page
	ChartScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

// pageView is the data handed to the page template
type pageView struct {
	Title     string
	Version   string
	Error     string
	Dashboard *domain.Dashboard
	Text      map[string]domain.TextBlock
	Charts    []domain.ChartRequest
	ChartCDN  string
}

// PageHandler renders the HTML dashboard
type PageHandler struct {
	service DashboardServiceInterface
	tmpl    *template.Template
	logger  *slog.Logger
}

// NewPageHandler parses the page template from assets
func NewPageHandler(service DashboardServiceInterface, assets fs.FS, logger *slog.Logger) (*PageHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(assets, PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &PageHandler{
		service: service,
		tmpl:    tmpl,
		logger:  logger.With(slog.String("handler", "page")),
	}, nil
}

// ServeHTTP handles GET /. A halted pipeline renders only the error banner
// and still answers 200 so the browser shows the message.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := h.service.Page(r.Context())

	view := pageView{
		Title:    charts.PageTitle,
		Version:  config.AppVersion,
		ChartCDN: ChartScriptURL,
	}
	if state.Halted() {
		view.Error = state.Error
		h.logger.WarnContext(r.Context(), "Rendering halted dashboard",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("message", state.Error))
	} else {
		d := state.Dashboard
		view.Dashboard = d
		view.Text = make(map[string]domain.TextBlock, len(d.Text))
		for _, block := range d.Text {
			view.Text[block.Key] = block
		}
		view.Charts = []domain.ChartRequest{d.TimeSeries, d.Scatter, d.Box}
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves embedded scripts and styles under /static/
func StaticHandler(assets fs.FS) (http.Handler, error) {
	static, err := fs.Sub(assets, StaticDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	}), nil
}
