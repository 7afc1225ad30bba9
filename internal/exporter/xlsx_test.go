package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"marketpulse/internal/config"
	"marketpulse/pkg/contracts/domain"
)

func testDashboard() domain.Dashboard {
	return domain.Dashboard{
		KPIs: []domain.KPICard{
			{Key: "total_projects", Label: "Total Projects Posted (Demand Λ)", Value: 37, Display: "37"},
			{Key: "median_friction", Label: "Median Price Gap (Friction)", Value: 12.5, Display: "$12.50"},
		},
		Monthly: testTotals(),
		Source: domain.SourceInfo{
			Path:        "/data/marketplace_dashboard_data.csv",
			Rows:        4,
			ModTime:     time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
			LoadedAt:    time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC),
			Fingerprint: "abc123",
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, testDashboard()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetKPIs, SheetMonthly, SheetSource}, f.GetSheetList())

	kpis, err := f.GetRows(SheetKPIs)
	require.NoError(t, err)
	require.Len(t, kpis, 3)
	assert.Equal(t, []string{"Metric", "Value", "Display"}, kpis[0])
	assert.Equal(t, "Total Projects Posted (Demand Λ)", kpis[1][0])
	assert.Equal(t, "$12.50", kpis[2][2])

	monthly, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, MonthlyHeaders, monthly[0])

	jobs, err := f.GetCellValue(SheetMonthly, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "30", jobs)

	fingerprint, err := f.GetCellValue(SheetSource, "B6")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fingerprint)
}

func TestCSVWriter_ExportWorkbook(t *testing.T) {
	base := t.TempDir()
	writer := NewCSVWriter(config.NewPaths(base, ""))

	fullPath, err := writer.ExportWorkbook("dashboard.xlsx", testDashboard())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, config.DefaultExportsDir, "dashboard.xlsx"), fullPath)

	info, err := os.Stat(fullPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
