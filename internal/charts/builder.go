package charts

import (
	"marketpulse/internal/analytics"
	"marketpulse/pkg/contracts/domain"
)

// Chart identifiers, also used as URL names.
const (
	ChartTimeSeries = "timeseries"
	ChartScatter    = "scatter"
	ChartBox        = "box"
)

// ChartNames lists every chart identifier in page order.
var ChartNames = []string{ChartTimeSeries, ChartScatter, ChartBox}

// KPI card keys.
const (
	KPITotalProjects  = "total_projects"
	KPITotalCountries = "total_client_countries"
	KPIAvgFee         = "avg_fee_per_job"
	KPIMedianFriction = "median_friction"
)

const (
	plotTemplate = "plotly_white"

	// EquilibriumBudget is the client budget where friction bottoms out.
	EquilibriumBudget = 500.0

	annotationHeightRatio = 0.9
)

// Input carries everything Build needs. Rows is the full table and feeds the
// box plot; Sample feeds the scatter plot.
type Input struct {
	Summary domain.KPISummary
	Monthly []domain.MonthlyTotal
	Sample  []domain.Listing
	Rows    []domain.Listing
	Source  domain.SourceInfo
}

// Build assembles the full dashboard from precomputed analytics.
func Build(in Input) domain.Dashboard {
	return domain.Dashboard{
		Title:      PageTitle,
		KPIs:       KPICards(in.Summary),
		Summary:    in.Summary,
		TimeSeries: TimeSeries(in.Monthly),
		Scatter:    Scatter(in.Sample),
		Box:        Box(in.Rows),
		Text:       Narrative(),
		Source:     in.Source,
		Monthly:    in.Monthly,
	}
}

// KPICards formats the summary into the four headline cards.
func KPICards(s domain.KPISummary) []domain.KPICard {
	return []domain.KPICard{
		{
			Key:     KPITotalProjects,
			Label:   "Total Projects Posted (Demand Λ)",
			Value:   float64(s.TotalProjects),
			Display: FormatCount(s.TotalProjects),
		},
		{
			Key:     KPITotalCountries,
			Label:   "Total Client Countries",
			Value:   float64(s.TotalClientCountries),
			Display: FormatCount(int64(s.TotalClientCountries)),
		},
		{
			Key:     KPIAvgFee,
			Label:   "Median Fee per Match (Π_p)",
			Value:   s.AvgFeePerJob,
			Display: FormatCurrency(s.AvgFeePerJob),
		},
		{
			Key:     KPIMedianFriction,
			Label:   "Median Price Gap (Friction)",
			Value:   s.MedianFriction,
			Display: FormatCurrency(s.MedianFriction),
		},
	}
}

// TimeSeries builds the dual-series line chart of monthly demand and revenue.
func TimeSeries(monthly []domain.MonthlyTotal) domain.ChartRequest {
	months := make([]any, len(monthly))
	jobs := make([]any, len(monthly))
	fees := make([]any, len(monthly))
	for i, m := range monthly {
		months[i] = m.Month.Format(dateLayout)
		jobs[i] = m.JobCount
		fees[i] = m.PlatformFee
	}

	req := domain.ChartRequest{
		ID:    ChartTimeSeries,
		Kind:  domain.ChartKindLine,
		Title: "Demand Flow (Jobs) and Platform Revenue (Π_p) Over Time",
		X:     domain.ColPublishedMonth,
		Y:     []string{domain.ColJobCount, domain.ColSimulatedPlatformFee},
		Labels: map[string]string{
			"value":                  "Value",
			domain.ColPublishedMonth: "Month",
			"variable":               "Metric",
		},
		HoverTemplate: "Month: %{x}<br>Value: %{y:,.0f}<extra></extra>",
		Template:      plotTemplate,
		RowCount:      len(monthly),
		Columns: map[string][]any{
			domain.ColPublishedMonth:       months,
			domain.ColJobCount:             jobs,
			domain.ColSimulatedPlatformFee: fees,
		},
	}

	if len(monthly) > 0 {
		peak := analytics.PeakJobCount(monthly)
		req.Annotations = []domain.Annotation{{
			X:         monthly[len(monthly)-1].Month.Format(dateLayout),
			Y:         float64(peak) * annotationHeightRatio,
			Text:      churnNote,
			ShowArrow: true,
			ArrowHead: 1,
			AX:        0,
			AY:        -40,
		}}
	}

	return req
}

// Scatter builds the log-log budget versus friction scatter plot.
func Scatter(sample []domain.Listing) domain.ChartRequest {
	budgets := make([]any, len(sample))
	gaps := make([]any, len(sample))
	categories := make([]any, len(sample))
	for i, row := range sample {
		budgets[i] = row.ClientBudgetUSD
		gaps[i] = row.PriceGapAbs
		categories[i] = row.BudgetCategory
	}

	return domain.ChartRequest{
		ID:    ChartScatter,
		Kind:  domain.ChartKindScatter,
		Title: "Client Budget vs. Price Gap (Friction V-Shape)",
		X:     domain.ColClientBudgetUSD,
		Y:     []string{domain.ColPriceGapAbs},
		Color: domain.ColBudgetCategory,
		LogX:  true,
		LogY:  true,
		Labels: map[string]string{
			domain.ColClientBudgetUSD: "Client Budget (Log)",
			domain.ColPriceGapAbs:     "|Budget - Market Rate| (Friction, Log)",
		},
		ReferenceLines: []domain.ReferenceLine{{
			Axis:           "x",
			Value:          EquilibriumBudget,
			Dash:           "dash",
			Color:          "red",
			AnnotationText: "~ $500 Equilibrium Zone",
		}},
		Marker:   &domain.MarkerStyle{Size: 4, Opacity: 0.7},
		Template: plotTemplate,
		RowCount: len(sample),
		Columns: map[string][]any{
			domain.ColClientBudgetUSD: budgets,
			domain.ColPriceGapAbs:     gaps,
			domain.ColBudgetCategory:  categories,
		},
	}
}

// Box builds the log-scale friction box plot per budget segment. The x axis
// order is always Low, Mid, High, Premium regardless of the data.
func Box(rows []domain.Listing) domain.ChartRequest {
	categories := make([]any, len(rows))
	gaps := make([]any, len(rows))
	for i, row := range rows {
		categories[i] = row.BudgetCategory
		gaps[i] = row.PriceGapAbs
	}

	order := make([]string, len(domain.BudgetCategoryOrder))
	copy(order, domain.BudgetCategoryOrder)

	return domain.ChartRequest{
		ID:    ChartBox,
		Kind:  domain.ChartKindBox,
		Title: "Friction Volatility by Segment",
		X:     domain.ColBudgetCategory,
		Y:     []string{domain.ColPriceGapAbs},
		Color: domain.ColBudgetCategory,
		LogY:  true,
		Labels: map[string]string{
			domain.ColPriceGapAbs:    "Friction (Log)",
			domain.ColBudgetCategory: "Segment",
		},
		CategoryOrder: order,
		Template:      plotTemplate,
		RowCount:      len(rows),
		Columns: map[string][]any{
			domain.ColBudgetCategory: categories,
			domain.ColPriceGapAbs:    gaps,
		},
	}
}

// Chart returns the named chart of d.
func Chart(d domain.Dashboard, name string) (domain.ChartRequest, bool) {
	switch name {
	case ChartTimeSeries:
		return d.TimeSeries, true
	case ChartScatter:
		return d.Scatter, true
	case ChartBox:
		return d.Box, true
	default:
		return domain.ChartRequest{}, false
	}
}
