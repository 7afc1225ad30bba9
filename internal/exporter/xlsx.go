package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"marketpulse/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetKPIs    = "KPIs"
	SheetMonthly = "Monthly Totals"
	SheetSource  = "Source"
)

const (
	numFmtThousands = 3 // #,##0
	numFmtDecimal   = 4 // #,##0.00
)

// WriteWorkbook writes an XLSX workbook describing d to out.
func WriteWorkbook(out io.Writer, d domain.Dashboard) error {
	f, err := buildWorkbook(d)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportWorkbook writes the workbook to filePath, creating parent directories.
func (w *CSVWriter) ExportWorkbook(filePath string, d domain.Dashboard) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := buildWorkbook(d)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return fullPath, nil
}

type workbookStyles struct {
	header    int
	thousands int
	decimal   int
	date      int
}

func buildWorkbook(d domain.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetSource} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, domain.Dashboard, workbookStyles) error{
		writeKPISheet,
		writeMonthlySheet,
		writeSourceSheet,
	}
	for _, step := range steps {
		if err := step(f, d, styles); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	if s.thousands, err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands}); err != nil {
		return s, fmt.Errorf("failed to create number style: %w", err)
	}
	if s.decimal, err = f.NewStyle(&excelize.Style{NumFmt: numFmtDecimal}); err != nil {
		return s, fmt.Errorf("failed to create number style: %w", err)
	}
	dateFmt := "yyyy-mm-dd"
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	return s, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, col, fromRow, toRow, style int) error {
	if toRow < fromRow {
		return nil
	}
	from, err := excelize.CoordinatesToCellName(col, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(col, toRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeKPISheet(f *excelize.File, d domain.Dashboard, s workbookStyles) error {
	if err := writeHeader(f, SheetKPIs, []string{"Metric", "Value", "Display"}, s.header); err != nil {
		return err
	}
	for i, card := range d.KPIs {
		if err := writeRow(f, SheetKPIs, i+2, card.Label, card.Value, card.Display); err != nil {
			return err
		}
	}
	if err := styleRange(f, SheetKPIs, 2, 2, len(d.KPIs)+1, s.decimal); err != nil {
		return err
	}
	return f.SetColWidth(SheetKPIs, "A", "A", 36)
}

func writeMonthlySheet(f *excelize.File, d domain.Dashboard, s workbookStyles) error {
	if err := writeHeader(f, SheetMonthly, MonthlyHeaders, s.header); err != nil {
		return err
	}
	for i, m := range d.Monthly {
		if err := writeRow(f, SheetMonthly, i+2, m.Month, m.JobCount, m.PlatformFee); err != nil {
			return err
		}
	}

	last := len(d.Monthly) + 1
	if err := styleRange(f, SheetMonthly, 1, 2, last, s.date); err != nil {
		return err
	}
	if err := styleRange(f, SheetMonthly, 2, 2, last, s.thousands); err != nil {
		return err
	}
	if err := styleRange(f, SheetMonthly, 3, 2, last, s.decimal); err != nil {
		return err
	}
	return f.SetColWidth(SheetMonthly, "A", "C", 24)
}

func writeSourceSheet(f *excelize.File, d domain.Dashboard, s workbookStyles) error {
	if err := writeHeader(f, SheetSource, []string{"Field", "Value"}, s.header); err != nil {
		return err
	}
	rows := [][]any{
		{"Path", d.Source.Path},
		{"Rows", d.Source.Rows},
		{"Modified", d.Source.ModTime.UTC().Format("2006-01-02 15:04:05")},
		{"Loaded", d.Source.LoadedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Fingerprint", d.Source.Fingerprint},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSource, i+2, row...); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSource, "B", "B", 70)
}
