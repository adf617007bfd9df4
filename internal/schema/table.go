package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Table is a raw delimited table as read from disk: a header row and
// string cells. Columns are optional; every lookup goes through Column
// so a missing header degrades to "absent" instead of an index panic.
type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string

	fingerprint string
}

// NewTable builds a table from a header row and data rows. Header cells
// are trimmed; rows shorter than the header are padded with empty cells.
func NewTable(headers []string, rows [][]string) *Table {
	trimmed := make([]string, len(headers))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		trimmed[i] = h
		if _, exists := index[h]; !exists {
			index[h] = i
		}
	}

	for i, row := range rows {
		if len(row) < len(trimmed) {
			padded := make([]string, len(trimmed))
			copy(padded, row)
			rows[i] = padded
		}
	}

	return &Table{headers: trimmed, index: index, rows: rows}
}

// Headers returns the trimmed header row.
func (t *Table) Headers() []string {
	return t.headers
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Column returns the index of the named column and whether it exists.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed cell at (row, column index). Out-of-range
// access returns the empty string.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][col])
}

// Fingerprint returns a sha256 digest of the table content. Two tables
// with identical headers and cells share a fingerprint; any content
// change produces a new one. The digest is computed once and cached.
func (t *Table) Fingerprint() string {
	if t.fingerprint != "" {
		return t.fingerprint
	}

	h := sha256.New()
	for _, header := range t.headers {
		h.Write([]byte(header))
		h.Write([]byte{0x1f})
	}
	h.Write([]byte{0x1e})
	for _, row := range t.rows {
		for _, cell := range row {
			h.Write([]byte(cell))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}

	t.fingerprint = hex.EncodeToString(h.Sum(nil))
	return t.fingerprint
}
