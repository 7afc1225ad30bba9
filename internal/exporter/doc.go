// Package exporter writes dashboard aggregates to downloadable files.
//
// CSVWriter produces UTF-8 CSV with an optional BOM so spreadsheet tools
// detect the encoding. WriteWorkbook produces an XLSX workbook holding the
// KPI cards, the monthly totals and the source file description.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	err := w.ExportMonthly("timeseries.csv", dashboard.Monthly)
//
//	var buf bytes.Buffer
//	err = exporter.WriteWorkbook(&buf, dashboard)
package exporter
