package analytics

import (
	"errors"

	"marketpulse/internal/marketdata"
	"marketpulse/pkg/contracts/domain"
)

// ErrEmptyTable is returned when a summary is requested for a table with no rows.
var ErrEmptyTable = errors.New("analytics: table has no rows")

// Summarize computes the four headline KPIs.
//
// AvgFeePerJob holds the median platform fee, not the arithmetic mean. Blank
// country cells are missing values and do not count as a country.
func Summarize(t *marketdata.Table) (domain.KPISummary, error) {
	n := t.Len()
	if n == 0 {
		return domain.KPISummary{}, ErrEmptyTable
	}

	var (
		total     int64
		countries = make(map[string]struct{})
		fees      = make([]float64, n)
		gaps      = make([]float64, n)
	)

	for i := 0; i < n; i++ {
		row := t.Row(i)
		total += row.JobCount
		if row.Country != "" {
			countries[row.Country] = struct{}{}
		}
		fees[i] = row.SimulatedPlatformFee
		gaps[i] = row.PriceGapAbs
	}

	medianFee, _ := Median(fees)
	medianGap, _ := Median(gaps)

	return domain.KPISummary{
		TotalProjects:        total,
		TotalClientCountries: len(countries),
		AvgFeePerJob:         medianFee,
		MedianFriction:       medianGap,
	}, nil
}
