package marketdata

import (
	"errors"
	"fmt"
	"strings"
)

// MaxReportedViolations caps the rule violations kept on a SchemaError.
const MaxReportedViolations = 20

// ErrFileNotFound is matched by every error reporting a missing data file.
var ErrFileNotFound = errors.New("data file not found")

// NotFoundError reports the absolute path of a missing data file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("data file not found at %s", e.Path)
}

// Is makes errors.Is(err, ErrFileNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// ParseError reports a cell that could not be converted to its column type.
// Row is the 1-based data row; the header is row 0.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Violation is a single failed validation rule on a data row.
type Violation struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Rule   string `json:"rule"`
	Value  string `json:"value"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d: %s=%q fails %s", v.Row, v.Column, v.Value, v.Rule)
}

// SchemaError reports a file whose shape does not match the listing schema.
type SchemaError struct {
	// Missing lists absent required columns in canonical order.
	Missing []string
	// Violations holds at most MaxReportedViolations entries.
	Violations []Violation
	// TotalViolations counts every violation found, reported or not.
	TotalViolations int
	Reason          string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns [%s]", strings.Join(e.Missing, ", "))
	}
	if len(e.Violations) > 0 {
		fmt.Fprintf(&b, ": %d invalid value(s), first: %s", e.TotalViolations, e.Violations[0])
	}
	return b.String()
}

// IsDataError reports whether err is one of the load error kinds.
func IsDataError(err error) bool {
	var (
		parseErr  *ParseError
		schemaErr *SchemaError
	)
	return errors.Is(err, ErrFileNotFound) || errors.As(err, &parseErr) || errors.As(err, &schemaErr)
}

// UserMessage renders err as the message shown when the dashboard halts.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		notFound  *NotFoundError
		parseErr  *ParseError
		schemaErr *SchemaError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Error: Data file not found at %s", notFound.Path)
	case errors.Is(err, ErrFileNotFound):
		return "Error: Data file not found"
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Error: Could not parse data file (%s)", parseErr.Error())
	case errors.As(err, &schemaErr):
		return fmt.Sprintf("Error: Data file has an unexpected format (%s)", schemaErr.Error())
	default:
		return fmt.Sprintf("Error: %s", err.Error())
	}
}
