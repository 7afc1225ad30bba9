package marketdata

import (
	"time"

	"marketpulse/pkg/contracts/domain"
)

// Table is an immutable set of listings together with its source metadata.
// It is safe for concurrent readers.
type Table struct {
	rows        []domain.Listing
	path        string
	modTime     time.Time
	size        int64
	loadedAt    time.Time
	fingerprint string
}

// NewTable builds a Table detached from any file. rows is copied.
func NewTable(rows []domain.Listing) *Table {
	cp := make([]domain.Listing, len(rows))
	copy(cp, rows)
	return &Table{rows: cp, loadedAt: time.Now().UTC()}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns a copy of row i. It panics when i is out of range.
func (t *Table) Row(i int) domain.Listing {
	return t.rows[i]
}

// Rows returns a copy of all rows.
func (t *Table) Rows() []domain.Listing {
	cp := make([]domain.Listing, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Path is the absolute source path, empty for tables built in memory.
func (t *Table) Path() string { return t.path }

// ModTime is the source file modification time observed at load.
func (t *Table) ModTime() time.Time { return t.modTime }

// Size is the source file size observed at load.
func (t *Table) Size() int64 { return t.size }

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Fingerprint is the hex BLAKE2b-256 digest of the raw file bytes.
func (t *Table) Fingerprint() string { return t.fingerprint }

// Source describes where the table came from.
func (t *Table) Source() domain.SourceInfo {
	return domain.SourceInfo{
		Path:        t.path,
		Rows:        len(t.rows),
		ModTime:     t.modTime,
		LoadedAt:    t.loadedAt,
		Fingerprint: t.fingerprint,
	}
}
