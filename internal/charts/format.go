package charts

import (
	"github.com/dustin/go-humanize"
)

// FormatCount renders an integer with thousands separators, e.g. "1,234".
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatCurrency renders a dollar amount with two decimals, e.g. "$1,234.56".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

const dateLayout = "2006-01-02"
