package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"marketpulse/internal/config"
	"marketpulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Default export file names.
const (
	MonthlyFileName  = "timeseries.csv"
	WorkbookFileName = "dashboard.xlsx"
)

// MonthlyHeaders is the column layout of the monthly totals export.
var MonthlyHeaders = []string{
	domain.ColPublishedMonth,
	domain.ColJobCount,
	domain.ColSimulatedPlatformFee,
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// EncodeCSV writes headers and records to w
func EncodeCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes data to a CSV file, replacing any existing content.
// Relative paths land in the exports directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	if err := EncodeCSV(file, options); err != nil {
		file.Close()
		return "", err
	}

	return fullPath, file.Close()
}

// ExportMonthly writes the monthly totals to filePath and returns the full path.
func (w *CSVWriter) ExportMonthly(filePath string, totals []domain.MonthlyTotal) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   MonthlyHeaders,
		Records:   MonthlyRecords(totals),
		BOMPrefix: true,
	})
}

// WriteMonthly streams the monthly totals as CSV to out.
func WriteMonthly(out io.Writer, totals []domain.MonthlyTotal) error {
	return EncodeCSV(out, WriteOptions{
		Headers:   MonthlyHeaders,
		Records:   MonthlyRecords(totals),
		BOMPrefix: true,
	})
}

// MonthlyRecords converts monthly totals to CSV records.
func MonthlyRecords(totals []domain.MonthlyTotal) [][]string {
	records := make([][]string, 0, len(totals))
	for _, m := range totals {
		records = append(records, []string{
			formatMonth(m.Month),
			formatInt(m.JobCount),
			formatFloat(m.PlatformFee),
		})
	}
	return records
}

// resolvePath resolves a path to the exports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetExportPath(filePath)
}
