package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/analytics"
	"marketpulse/internal/marketdata"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), includeStack)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "missing data file",
			err:        fmt.Errorf("load: %w", &marketdata.NotFoundError{Path: "/srv/data.csv"}),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Error: Data file not found at /srv/data.csv", body["detail"])
				assert.Equal(t, "/srv/data.csv", body["path"])
			},
		},
		{
			name:       "parse error",
			err:        &marketdata.ParseError{Row: 4, Column: "job_count", Value: "x", Err: errors.New("not a number")},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataParse,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, float64(4), body["row"])
				assert.Equal(t, "job_count", body["column"])
			},
		},
		{
			name:       "schema error with missing columns",
			err:        &marketdata.SchemaError{Missing: []string{"country", "budget_category"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataSchema,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{"country", "budget_category"}, body["missing"])
				assert.NotContains(t, body, "violations")
			},
		},
		{
			name: "schema error with violations",
			err: &marketdata.SchemaError{
				Violations:      []marketdata.Violation{{Row: 2, Column: "budget_category", Rule: "oneof", Value: "Luxury"}},
				TotalViolations: 1,
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataSchema,
			check: func(t *testing.T, body map[string]any) {
				violations, ok := body["violations"].([]any)
				require.True(t, ok)
				require.Len(t, violations, 1)
				assert.Equal(t, "budget_category", violations[0].(map[string]any)["column"])
			},
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        InvalidParameter("name", "pie"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "INVALID_PARAMETER", body["error_code"])
			},
		},
		{
			name:       "empty table",
			err:        fmt.Errorf("summarize: %w", analytics.ErrEmptyTable),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataEmpty,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Error: Data file has no rows", body["detail"])
			},
		},
		{
			name:       "storage error hides cause",
			err:        fmt.Errorf("export: %w", NewStorageError("write export", errors.New("disk full"))),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStorage,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body["detail"], "disk full")
				assert.Equal(t, "STORAGE", body["error_type"])
			},
		},
		{
			name:       "config error",
			err:        NewConfigError("load config", errors.New("bad port")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "CONFIG", body["error_type"])
			},
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body["detail"], "boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(false)
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/dashboard", body["instance"])
			assert.NotContains(t, body, "stack")
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestErrorHandler_HandleNilError(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_TraceID(t *testing.T) {
	var captured string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetReqID(r.Context())
		newTestHandler(true).HandleError(w, r, errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	body := decodeProblem(t, rec)
	require.NotEmpty(t, captured)
	assert.Equal(t, captured, body["trace_id"])
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler(false)
	handler := RecoveryMiddleware(h)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("status", 999).
		WithExtension("hint", "check the path")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "check the path", body["hint"])
	assert.NotContains(t, body, "detail")
}

func TestAppError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("write export", cause).WithContext("path", "/tmp/x")

	assert.Equal(t, "[STORAGE] write export: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "/tmp/x", err.Context["path"])
	assert.Equal(t, "[CONFIG] bad port", NewConfigError("bad port", nil).Error())
}
