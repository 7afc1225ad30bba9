package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/exporter"
	"marketpulse/internal/marketdata"
	"marketpulse/internal/shared/testutil"
)

const testCSV = `published_month,job_count,simulated_platform_fee,price_gap_abs,client_budget_usd,country,budget_category
2023-01-01,1000,10,4,50,US,Low Budget
2023-01-01,234,20,1,400,US,Mid Budget
2023-02-01,30,30,3,2000,FR,High Budget
`

func writeData(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, "data.csv", testCSV)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestKPIsCommand(t *testing.T) {
	out, _, err := run(t, "kpis", "--file", writeData(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Total Projects Posted (Demand Λ)")
	assert.Contains(t, out, "1,264")
	assert.Contains(t, out, "$20.00")
	assert.Contains(t, out, "rows")
}

func TestKPIsCommand_JSON(t *testing.T) {
	out, _, err := run(t, "kpis", "--json", "--file", writeData(t))
	require.NoError(t, err)

	var got kpiOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(1264), got.Summary.TotalProjects)
	assert.Equal(t, 2, got.Summary.TotalClientCountries)
	assert.Equal(t, 3, got.Source.Rows)
}

func TestKPIsCommand_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.csv")

	_, _, err := run(t, "kpis", "--file", missing)
	require.ErrorIs(t, err, marketdata.ErrFileNotFound)
	assert.Equal(t, "Error: Data file not found at "+missing, marketdata.UserMessage(err))
}

func TestExportCommand(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	out, _, err := run(t, "export", "--out", outDir, "--file", writeData(t))
	require.NoError(t, err)

	for _, name := range []string{exporter.MonthlyFileName, exporter.WorkbookFileName} {
		path := filepath.Join(outDir, name)
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}
}

func TestExportCommand_RequiresOut(t *testing.T) {
	_, _, err := run(t, "export", "--file", writeData(t))
	assert.Error(t, err)
}
