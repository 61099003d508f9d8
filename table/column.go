// Package table is a searchable, read-only view over rows of any type. The
// filtering is pure and independent of how the table is drawn; View renders a
// plain terminal table and Model wraps it for interactive use.
package table

import "github.com/jrsteele09/b2bmarket-portal/internal/utils"

// Column describes one column of a table.
type Column[T any] struct {
	// Key identifies the column
	Key    string
	Header string

	// Value returns the raw value used for searching, and for display when
	// Render is not set
	Value func(T) any

	// Render optionally formats the cell
	Render func(T) string

	// Searchable defaults to true when nil
	Searchable *bool
}

func (c Column[T]) IsSearchable() bool {
	return c.Searchable == nil || *c.Searchable
}

// Cell returns the displayed text of the column for row
func (c Column[T]) Cell(row T) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return c.text(row)
}

func (c Column[T]) text(row T) string {
	if c.Value == nil {
		return ""
	}
	return utils.Stringify(c.Value(row))
}

// NotSearchable is a convenience for Column.Searchable
func NotSearchable() *bool {
	return utils.Ptr(false)
}
