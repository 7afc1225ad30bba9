package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketpulse/pkg/contracts/domain"
)

// Header is the canonical header line of the marketplace CSV.
var Header = strings.Join(domain.RequiredColumns, ",")

// Row formats one listing in canonical column order.
func Row(l domain.Listing) string {
	return strings.Join([]string{
		l.PublishedMonth.Format("2006-01-02"),
		strconv.FormatInt(l.JobCount, 10),
		strconv.FormatFloat(l.SimulatedPlatformFee, 'f', -1, 64),
		strconv.FormatFloat(l.PriceGapAbs, 'f', -1, 64),
		strconv.FormatFloat(l.ClientBudgetUSD, 'f', -1, 64),
		l.Country,
		l.BudgetCategory,
	}, ",")
}

// CSV renders listings as a complete data file with header.
func CSV(listings ...domain.Listing) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, l := range listings {
		b.WriteString(Row(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Month returns the first day of a month in UTC.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Listings is a small data set covering two months, three countries and
// every budget category. Job counts sum to 60.
func Listings() []domain.Listing {
	jan, feb := Month(2023, time.January), Month(2023, time.February)
	return []domain.Listing{
		{PublishedMonth: jan, JobCount: 10, SimulatedPlatformFee: 10.5, PriceGapAbs: 4, ClientBudgetUSD: 50, Country: "US", BudgetCategory: domain.BudgetLow},
		{PublishedMonth: jan, JobCount: 20, SimulatedPlatformFee: 20, PriceGapAbs: 1, ClientBudgetUSD: 400, Country: "US", BudgetCategory: domain.BudgetMid},
		{PublishedMonth: feb, JobCount: 30, SimulatedPlatformFee: 30, PriceGapAbs: 3, ClientBudgetUSD: 2000, Country: "FR", BudgetCategory: domain.BudgetHigh},
		{PublishedMonth: feb, JobCount: 0, SimulatedPlatformFee: 40, PriceGapAbs: 2, ClientBudgetUSD: 9000, Country: "DE", BudgetCategory: domain.BudgetPremium},
	}
}
