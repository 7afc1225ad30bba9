// Package marketdata loads the marketplace listings file into an immutable
// Table and memoises loaded tables per path.
//
// Load reads and validates a CSV file in one pass. Every failure is reported
// through one of three error kinds so callers can halt the dashboard with a
// precise message:
//
//   - a missing file matches ErrFileNotFound (see NotFoundError)
//   - a cell that cannot be converted is a *ParseError
//   - missing columns, rule violations or an empty body are a *SchemaError
//
// Store wraps a Loader with a cache keyed by absolute path. A cached Table is
// reused only while the file's modification time and size are unchanged, and
// concurrent misses for one path share a single load.
package marketdata
