package marketdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"marketpulse/internal/infrastructure"
	"marketpulse/pkg/contracts/domain"
)

// monthLayouts are tried in order when parsing published_month.
var monthLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads marketplace CSV files into Tables.
type Loader struct {
	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
	tracer   trace.Tracer
	validate *validator.Validate
}

// NewLoader creates a loader. A nil logger falls back to the global logger
// and nil metrics disables instrumentation.
func NewLoader(logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("csv"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Loader{
		logger:   infrastructure.WithComponent(logger, "marketdata.loader"),
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		validate: v,
	}
}

// Load reads path with a loader using the global logger and no metrics.
func Load(ctx context.Context, path string) (*Table, error) {
	return NewLoader(nil, nil).Load(ctx, path)
}

// Load reads, parses and validates the CSV file at path.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	ctx, span := l.tracer.Start(ctx, "marketdata.Load")
	defer span.End()

	start := time.Now()
	table, err := l.load(ctx, path)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.record(ctx, "error", errorKind(err), elapsed, 0)
		l.logger.ErrorContext(ctx, "Failed to load data file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("data.path", table.path),
		attribute.Int("data.rows", table.Len()),
	)
	l.record(ctx, "success", "", elapsed, table.Len())
	l.logger.InfoContext(ctx, "Data file loaded",
		slog.String("path", table.path),
		slog.Int("rows", table.Len()),
		slog.Int64("size_bytes", table.size),
		slog.Duration("duration", elapsed))

	return table, nil
}

func (l *Loader) load(ctx context.Context, path string) (*Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve data file path %q: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "Loading data file", slog.String("path", abs))

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: abs}
		}
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("data file %s is a directory", abs)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: abs}
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	rows, err := l.parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, err
	}

	sum := blake2b.Sum256(data)
	return &Table{
		rows:        rows,
		path:        abs,
		modTime:     info.ModTime(),
		size:        info.Size(),
		loadedAt:    time.Now().UTC(),
		fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

// parse converts CSV content into validated listings.
func (l *Loader) parse(r io.Reader) ([]domain.Listing, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: append([]string(nil), domain.RequiredColumns...), Reason: "file is empty"}
		}
		return nil, &ParseError{Row: 0, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var (
		rows       []domain.Listing
		violations []Violation
		total      int
	)

	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: rowNum, Err: err}
		}

		listing, err := parseRecord(rowNum, record, index)
		if err != nil {
			return nil, err
		}

		if err := l.validate.Struct(&listing); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return nil, fmt.Errorf("validate row %d: %w", rowNum, err)
			}
			for _, fe := range verrs {
				total++
				if len(violations) < MaxReportedViolations {
					violations = append(violations, Violation{
						Row:    rowNum,
						Column: fe.Field(),
						Rule:   ruleString(fe),
						Value:  fmt.Sprint(fe.Value()),
					})
				}
			}
			continue
		}

		rows = append(rows, listing)
	}

	if total > 0 {
		return nil, &SchemaError{Violations: violations, TotalViolations: total}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Reason: "no data rows"}
	}

	return rows, nil
}

func parseRecord(rowNum int, record []string, index map[string]int) (domain.Listing, error) {
	cell := func(col string) string {
		return record[index[col]]
	}
	fail := func(col string, err error) error {
		return &ParseError{Row: rowNum, Column: col, Value: cell(col), Err: err}
	}

	var (
		listing domain.Listing
		err     error
	)

	if listing.PublishedMonth, err = ParseMonth(cell(domain.ColPublishedMonth)); err != nil {
		return listing, fail(domain.ColPublishedMonth, err)
	}
	if listing.JobCount, err = parseCount(cell(domain.ColJobCount)); err != nil {
		return listing, fail(domain.ColJobCount, err)
	}
	if listing.SimulatedPlatformFee, err = parseNumber(cell(domain.ColSimulatedPlatformFee)); err != nil {
		return listing, fail(domain.ColSimulatedPlatformFee, err)
	}
	if listing.PriceGapAbs, err = parseNumber(cell(domain.ColPriceGapAbs)); err != nil {
		return listing, fail(domain.ColPriceGapAbs, err)
	}
	if listing.ClientBudgetUSD, err = parseNumber(cell(domain.ColClientBudgetUSD)); err != nil {
		return listing, fail(domain.ColClientBudgetUSD, err)
	}
	listing.Country = cell(domain.ColCountry)
	listing.BudgetCategory = strings.TrimSpace(cell(domain.ColBudgetCategory))

	return listing, nil
}

// ParseMonth parses a published_month value and truncates it to the first
// day of its month in UTC.
func ParseMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format")
}

// parseCount accepts integers and integral floats such as "12.0".
func parseCount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}
	f, err := parseNumber(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, errors.New("not a whole number")
	}
	return int64(f), nil
}

func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty value")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}

func ruleString(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func errorKind(err error) string {
	var (
		parseErr  *ParseError
		schemaErr *SchemaError
	)
	switch {
	case errors.Is(err, ErrFileNotFound):
		return "not_found"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "io"
	}
}

func (l *Loader) record(ctx context.Context, outcome, kind string, elapsed time.Duration, rows int) {
	if l.metrics == nil {
		return
	}
	l.metrics.LoadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	l.metrics.LoadDuration.Record(ctx, elapsed.Seconds())
	if kind != "" {
		l.metrics.LoadErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		return
	}
	l.metrics.RowsLoaded.Record(ctx, int64(rows))
}
