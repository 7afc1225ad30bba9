package charts

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/pkg/contracts/domain"
)

func TestKPICards(t *testing.T) {
	cards := KPICards(domain.KPISummary{
		TotalProjects:        1234567,
		TotalClientCountries: 3,
		AvgFeePerJob:         25,
		MedianFriction:       1234.5,
	})

	want := []domain.KPICard{
		{Key: KPITotalProjects, Label: "Total Projects Posted (Demand Λ)", Value: 1234567, Display: "1,234,567"},
		{Key: KPITotalCountries, Label: "Total Client Countries", Value: 3, Display: "3"},
		{Key: KPIAvgFee, Label: "Median Fee per Match (Π_p)", Value: 25, Display: "$25.00"},
		{Key: KPIMedianFriction, Label: "Median Price Gap (Friction)", Value: 1234.5, Display: "$1,234.50"},
	}
	if diff := cmp.Diff(want, cards); diff != "" {
		t.Errorf("KPICards() mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeSeries(t *testing.T) {
	monthly := []domain.MonthlyTotal{
		{Month: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), JobCount: 100, PlatformFee: 50},
		{Month: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), JobCount: 300, PlatformFee: 120.5},
		{Month: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), JobCount: 80, PlatformFee: 20},
	}

	req := TimeSeries(monthly)

	assert.Equal(t, domain.ChartKindLine, req.Kind)
	assert.Equal(t, domain.ColPublishedMonth, req.X)
	assert.Equal(t, []string{domain.ColJobCount, domain.ColSimulatedPlatformFee}, req.Y)
	assert.Equal(t, 3, req.RowCount)
	assert.Equal(t, "plotly_white", req.Template)

	wantColumns := map[string][]any{
		domain.ColPublishedMonth:       {"2023-01-01", "2023-02-01", "2023-03-01"},
		domain.ColJobCount:             {int64(100), int64(300), int64(80)},
		domain.ColSimulatedPlatformFee: {50.0, 120.5, 20.0},
	}
	if diff := cmp.Diff(wantColumns, req.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, req.Annotations, 1)
	note := req.Annotations[0]
	assert.Equal(t, "2023-03-01", note.X)
	assert.InDelta(t, 270.0, note.Y, 1e-9)
	assert.Equal(t, churnNote, note.Text)
	assert.True(t, note.ShowArrow)
	assert.Equal(t, -40, note.AY)
}

func TestTimeSeries_Empty(t *testing.T) {
	req := TimeSeries(nil)
	assert.Empty(t, req.Annotations)
	assert.Equal(t, 0, req.RowCount)
}

func TestScatter(t *testing.T) {
	sample := []domain.Listing{
		{ClientBudgetUSD: 250, PriceGapAbs: 40, BudgetCategory: domain.BudgetLow},
		{ClientBudgetUSD: 5000, PriceGapAbs: 900, BudgetCategory: domain.BudgetPremium},
	}

	req := Scatter(sample)

	assert.Equal(t, domain.ChartKindScatter, req.Kind)
	assert.True(t, req.LogX)
	assert.True(t, req.LogY)
	assert.Equal(t, domain.ColBudgetCategory, req.Color)
	assert.Equal(t, 2, req.RowCount)

	want := []domain.ReferenceLine{{
		Axis:           "x",
		Value:          500,
		Dash:           "dash",
		Color:          "red",
		AnnotationText: "~ $500 Equilibrium Zone",
	}}
	if diff := cmp.Diff(want, req.ReferenceLines); diff != "" {
		t.Errorf("reference lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, &domain.MarkerStyle{Size: 4, Opacity: 0.7}, req.Marker)
	assert.Equal(t, []any{250.0, 5000.0}, req.Columns[domain.ColClientBudgetUSD])
}

func TestBox_CategoryOrderIsFixed(t *testing.T) {
	want := []string{"Low Budget", "Mid Budget", "High Budget", "Premium Budget"}

	tests := []struct {
		name string
		rows []domain.Listing
	}{
		{"empty", nil},
		{"premium only", []domain.Listing{{BudgetCategory: domain.BudgetPremium, PriceGapAbs: 3}}},
		{"reverse order", []domain.Listing{
			{BudgetCategory: domain.BudgetPremium, PriceGapAbs: 4},
			{BudgetCategory: domain.BudgetHigh, PriceGapAbs: 3},
			{BudgetCategory: domain.BudgetMid, PriceGapAbs: 2},
			{BudgetCategory: domain.BudgetLow, PriceGapAbs: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Box(tt.rows)
			assert.Equal(t, want, req.CategoryOrder)
			assert.Equal(t, domain.ChartKindBox, req.Kind)
			assert.False(t, req.LogX)
			assert.True(t, req.LogY)
			assert.Equal(t, len(tt.rows), req.RowCount)
		})
	}

	req := Box(nil)
	req.CategoryOrder[0] = "mutated"
	assert.Equal(t, domain.BudgetLow, domain.BudgetCategoryOrder[0])
}

func TestBuild(t *testing.T) {
	rows := []domain.Listing{
		{PublishedMonth: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), JobCount: 5, BudgetCategory: domain.BudgetLow, ClientBudgetUSD: 100, PriceGapAbs: 1},
	}
	in := Input{
		Summary: domain.KPISummary{TotalProjects: 5, TotalClientCountries: 1},
		Monthly: []domain.MonthlyTotal{{Month: rows[0].PublishedMonth, JobCount: 5}},
		Sample:  rows,
		Rows:    rows,
		Source:  domain.SourceInfo{Path: "/data/file.csv", Rows: 1},
	}

	d := Build(in)

	assert.Equal(t, PageTitle, d.Title)
	assert.Len(t, d.KPIs, 4)
	assert.Equal(t, ChartTimeSeries, d.TimeSeries.ID)
	assert.Equal(t, ChartScatter, d.Scatter.ID)
	assert.Equal(t, ChartBox, d.Box.ID)
	assert.Equal(t, in.Source, d.Source)
	assert.Len(t, d.Text, 5)

	for _, name := range ChartNames {
		req, ok := Chart(d, name)
		require.True(t, ok, name)
		assert.Equal(t, name, req.ID)
	}
	_, ok := Chart(d, "pie")
	assert.False(t, ok)
}
