package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/marketdata"
	"marketpulse/pkg/contracts/domain"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func listing(m time.Time, jobs int64, fee, gap float64, country string) domain.Listing {
	return domain.Listing{
		PublishedMonth:       m,
		JobCount:             jobs,
		SimulatedPlatformFee: fee,
		PriceGapAbs:          gap,
		ClientBudgetUSD:      100,
		Country:              country,
		BudgetCategory:       domain.BudgetLow,
	}
}

func TestSummarize(t *testing.T) {
	jan := month(2023, time.January)
	table := marketdata.NewTable([]domain.Listing{
		listing(jan, 10, 10, 4, "US"),
		listing(jan, 20, 20, 1, "US"),
		listing(jan, 30, 30, 3, "FR"),
		listing(jan, 0, 40, 2, "DE"),
	})

	got, err := Summarize(table)
	require.NoError(t, err)

	assert.Equal(t, int64(60), got.TotalProjects)
	assert.Equal(t, 3, got.TotalClientCountries)
	assert.Equal(t, 25.0, got.AvgFeePerJob)
	assert.Equal(t, 2.5, got.MedianFriction)
}

func TestSummarize_CountryExactMatch(t *testing.T) {
	jan := month(2023, time.January)
	table := marketdata.NewTable([]domain.Listing{
		listing(jan, 1, 1, 1, "US"),
		listing(jan, 1, 1, 1, "us"),
		listing(jan, 1, 1, 1, "US "),
	})

	got, err := Summarize(table)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalClientCountries)
}

func TestSummarize_BlankCountryNotCounted(t *testing.T) {
	jan := month(2023, time.January)
	table := marketdata.NewTable([]domain.Listing{
		listing(jan, 1, 1, 1, "US"),
		listing(jan, 2, 1, 1, ""),
		listing(jan, 3, 1, 1, "FR"),
	})

	got, err := Summarize(table)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalClientCountries)
	assert.Equal(t, int64(6), got.TotalProjects, "rows with a blank country still count")
}

func TestSummarize_EmptyTable(t *testing.T) {
	_, err := Summarize(marketdata.NewTable(nil))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{7}, 7, true},
		{"odd unsorted", []float64{9, 1, 5}, 5, true},
		{"even", []float64{10, 20, 30, 40}, 25, true},
		{"even unsorted", []float64{40, 10, 30, 20}, 25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]float64(nil), tt.values...)
			got, ok := Median(input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.values, input, "input must not be reordered")
		})
	}
}

func TestMonthlyTotals(t *testing.T) {
	jan, feb, mar := month(2023, time.January), month(2023, time.February), month(2023, time.March)
	table := marketdata.NewTable([]domain.Listing{
		listing(mar, 5, 1.5, 1, "US"),
		listing(jan, 10, 2, 1, "US"),
		listing(feb, 7, 3, 1, "FR"),
		listing(jan, 20, 4.5, 1, "DE"),
	})

	got := MonthlyTotals(table)
	require.Len(t, got, 3)

	assert.Equal(t, []domain.MonthlyTotal{
		{Month: jan, JobCount: 30, PlatformFee: 6.5},
		{Month: feb, JobCount: 7, PlatformFee: 3},
		{Month: mar, JobCount: 5, PlatformFee: 1.5},
	}, got)
	assert.Equal(t, int64(30), PeakJobCount(got))
}

func TestMonthlyTotals_Empty(t *testing.T) {
	got := MonthlyTotals(marketdata.NewTable(nil))
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int64(0), PeakJobCount(got))
}

func sampleTable(n int) *marketdata.Table {
	rows := make([]domain.Listing, n)
	for i := range rows {
		rows[i] = listing(month(2023, time.January), int64(i), float64(i), float64(i), fmt.Sprintf("C%d", i))
	}
	return marketdata.NewTable(rows)
}

func TestSample_Deterministic(t *testing.T) {
	table := sampleTable(500)

	a := Sample(table, 50, DefaultSampleSeed)
	b := Sample(table, 50, DefaultSampleSeed)
	require.Len(t, a, 50)
	assert.Equal(t, a, b)

	c := Sample(table, 50, 7)
	assert.NotEqual(t, a, c)
}

func TestSample_PreservesOrderWithoutReplacement(t *testing.T) {
	table := sampleTable(200)

	got := Sample(table, 120, DefaultSampleSeed)
	require.Len(t, got, 120)

	seen := make(map[int64]bool)
	for i, row := range got {
		assert.False(t, seen[row.JobCount], "row %d drawn twice", row.JobCount)
		seen[row.JobCount] = true
		if i > 0 {
			assert.Less(t, got[i-1].JobCount, row.JobCount)
		}
	}
}

func TestSample_Clamps(t *testing.T) {
	table := sampleTable(30)

	got := Sample(table, DefaultSampleSize, DefaultSampleSeed)
	assert.Len(t, got, 30)
	assert.Equal(t, table.Rows(), got)

	assert.Empty(t, Sample(table, 0, DefaultSampleSeed))
	assert.Empty(t, Sample(table, -5, DefaultSampleSeed))
	assert.Empty(t, Sample(marketdata.NewTable(nil), 10, DefaultSampleSeed))
}

func TestSampleIndices_Range(t *testing.T) {
	got := SampleIndices(1000, 10, DefaultSampleSeed)
	require.Len(t, got, 10)
	for _, idx := range got {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 1000)
	}
}
