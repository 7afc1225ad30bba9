package domain

import (
	"time"
)

// Budget category labels used by the marketplace data set.
const (
	BudgetLow     = "Low Budget"
	BudgetMid     = "Mid Budget"
	BudgetHigh    = "High Budget"
	BudgetPremium = "Premium Budget"
)

// BudgetCategoryOrder is the display order for budget segments, cheapest first.
var BudgetCategoryOrder = []string{BudgetLow, BudgetMid, BudgetHigh, BudgetPremium}

// CSV column names of the marketplace data file.
const (
	ColPublishedMonth       = "published_month"
	ColJobCount             = "job_count"
	ColSimulatedPlatformFee = "simulated_platform_fee"
	ColPriceGapAbs          = "price_gap_abs"
	ColClientBudgetUSD      = "client_budget_usd"
	ColCountry              = "country"
	ColBudgetCategory       = "budget_category"
)

// RequiredColumns lists every column the dashboard reads, in canonical order.
var RequiredColumns = []string{
	ColPublishedMonth,
	ColJobCount,
	ColSimulatedPlatformFee,
	ColPriceGapAbs,
	ColClientBudgetUSD,
	ColCountry,
	ColBudgetCategory,
}

// Listing is one marketplace job posting row.
// PublishedMonth is always truncated to the first day of its month (UTC).
type Listing struct {
	PublishedMonth       time.Time `json:"published_month" csv:"published_month" validate:"required"`
	JobCount             int64     `json:"job_count" csv:"job_count" validate:"min=0"`
	SimulatedPlatformFee float64   `json:"simulated_platform_fee" csv:"simulated_platform_fee" validate:"min=0"`
	PriceGapAbs          float64   `json:"price_gap_abs" csv:"price_gap_abs" validate:"min=0"`
	ClientBudgetUSD      float64   `json:"client_budget_usd" csv:"client_budget_usd" validate:"gt=0"`
	Country              string    `json:"country" csv:"country"`
	BudgetCategory       string    `json:"budget_category" csv:"budget_category" validate:"oneof='Low Budget' 'Mid Budget' 'High Budget' 'Premium Budget'"`
}
