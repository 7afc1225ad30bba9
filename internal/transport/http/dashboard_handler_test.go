package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "marketpulse/internal/errors"
	"marketpulse/internal/charts"
	"marketpulse/internal/marketdata"
	"marketpulse/internal/services"
	"marketpulse/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	args := m.Called()
	return args.Get(0).(domain.Dashboard), args.Error(1)
}

func (m *MockDashboardService) KPIs(ctx context.Context) (domain.KPISummary, domain.SourceInfo, error) {
	args := m.Called()
	return args.Get(0).(domain.KPISummary), args.Get(1).(domain.SourceInfo), args.Error(2)
}

func (m *MockDashboardService) Chart(ctx context.Context, name string) (domain.ChartRequest, domain.SourceInfo, error) {
	args := m.Called(name)
	return args.Get(0).(domain.ChartRequest), args.Get(1).(domain.SourceInfo), args.Error(2)
}

func (m *MockDashboardService) Page(ctx context.Context) services.PageState {
	args := m.Called()
	return args.Get(0).(services.PageState)
}

func (m *MockDashboardService) WriteMonthlyCSV(ctx context.Context, out io.Writer) error {
	args := m.Called(out)
	return args.Error(0)
}

func (m *MockDashboardService) WriteWorkbook(ctx context.Context, out io.Writer) error {
	args := m.Called(out)
	return args.Error(0)
}

const testFingerprint = "0badc0ffee"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSource() domain.SourceInfo {
	return domain.SourceInfo{
		Path:        "/data/marketplace_dashboard_data.csv",
		Rows:        4,
		ModTime:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Fingerprint: testFingerprint,
	}
}

func testDashboard() domain.Dashboard {
	summary := domain.KPISummary{TotalProjects: 60, TotalClientCountries: 3, AvgFeePerJob: 25, MedianFriction: 2.5}
	month := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	return charts.Build(charts.Input{
		Summary: summary,
		Monthly: []domain.MonthlyTotal{{Month: month, JobCount: 60, PlatformFee: 100}},
		Source:  testSource(),
	})
}

func newDashboardRouter(svc DashboardServiceInterface) chi.Router {
	logger := testLogger()
	h := NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/dashboard", h.Routes())
	r.Mount("/api/charts", h.ChartRoutes())
	return r
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, apierrors.ProblemContentType, rec.Header().Get("Content-Type"))
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Dashboard").Return(testDashboard(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `W/"`+testFingerprint+`"`, rec.Header().Get("ETag"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, charts.PageTitle, body["title"])
	assert.Contains(t, body, "time_series")
	assert.NotContains(t, body, "Monthly")
	svc.AssertExpectations(t)
}

func TestDashboardHandler_NotModified(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Dashboard").Return(testDashboard(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("If-None-Match", `W/"other", "`+testFingerprint+`"`)
	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDashboardHandler_DataErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantExt    string
	}{
		{
			name:       "missing file",
			err:        &marketdata.NotFoundError{Path: "/data/missing.csv"},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeDataNotFound,
			wantExt:    "path",
		},
		{
			name:       "parse error",
			err:        &marketdata.ParseError{Row: 3, Column: domain.ColJobCount, Value: "abc"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeDataParse,
			wantExt:    "column",
		},
		{
			name:       "schema error",
			err:        &marketdata.SchemaError{Missing: []string{domain.ColCountry}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeDataSchema,
			wantExt:    "missing",
		},
		{
			name:       "no data source",
			err:        services.ErrNoDataSource,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apierrors.TypeServiceDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Dashboard").Return(domain.Dashboard{}, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			rec := httptest.NewRecorder()
			newDashboardRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Header().Get("ETag"))
			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, "/api/dashboard", problem["instance"])
			if tt.wantExt != "" {
				assert.Contains(t, problem, tt.wantExt)
			}
		})
	}
}

func TestDashboardHandler_GetKPIs(t *testing.T) {
	d := testDashboard()
	svc := new(MockDashboardService)
	svc.On("KPIs").Return(d.Summary, d.Source, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/kpis", nil)
	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `W/"`+testFingerprint+`"`, rec.Header().Get("ETag"))

	var body KPIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, d.Summary, body.Summary)
	require.Len(t, body.Cards, 4)
	assert.Equal(t, "60", body.Cards[0].Display)
}

func TestDashboardHandler_GetChart(t *testing.T) {
	d := testDashboard()
	svc := new(MockDashboardService)
	svc.On("Chart", charts.ChartBox).Return(d.Box, d.Source, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/charts/box", nil)
	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var chart domain.ChartRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, charts.ChartBox, chart.ID)
	assert.Equal(t, domain.BudgetCategoryOrder, chart.CategoryOrder)
	assert.True(t, chart.LogY)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_UnknownChart(t *testing.T) {
	svc := new(MockDashboardService)

	req := httptest.NewRequest(http.MethodGet, "/api/charts/pie", nil)
	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeNotFound, problem["type"])
	svc.AssertNotCalled(t, "Chart", mock.Anything)
}

func TestDashboardHandler_ListCharts(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	rec := httptest.NewRecorder()
	newDashboardRouter(new(MockDashboardService)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":["timeseries","scatter","box"],"count":3}`, rec.Body.String())
}
