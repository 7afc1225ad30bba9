package analytics

import (
	"sort"
	"time"

	"marketpulse/internal/marketdata"
	"marketpulse/pkg/contracts/domain"
)

// MonthlyTotals groups rows by published month and sums job_count and
// simulated_platform_fee per month. The result is sorted by month ascending
// and holds exactly one entry per distinct month.
func MonthlyTotals(t *marketdata.Table) []domain.MonthlyTotal {
	n := t.Len()
	if n == 0 {
		return []domain.MonthlyTotal{}
	}

	byMonth := make(map[time.Time]*domain.MonthlyTotal)
	for i := 0; i < n; i++ {
		row := t.Row(i)
		total, ok := byMonth[row.PublishedMonth]
		if !ok {
			total = &domain.MonthlyTotal{Month: row.PublishedMonth}
			byMonth[row.PublishedMonth] = total
		}
		total.JobCount += row.JobCount
		total.PlatformFee += row.SimulatedPlatformFee
	}

	out := make([]domain.MonthlyTotal, 0, len(byMonth))
	for _, total := range byMonth {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})

	return out
}

// PeakJobCount returns the largest monthly job count.
func PeakJobCount(totals []domain.MonthlyTotal) int64 {
	counts := make([]int64, len(totals))
	for i, m := range totals {
		counts[i] = m.JobCount
	}
	return Max(counts)
}
