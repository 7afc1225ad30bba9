// Package analytics derives the dashboard figures from a loaded table:
// headline KPIs, monthly totals and a reproducible scatter sample.
// All functions are pure and never modify the table.
package analytics
