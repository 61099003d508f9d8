package table

import (
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
	"github.com/mattn/go-runewidth"
)

const (
	maxColumnWidth = 48
	columnGap      = "  "
)

// View renders the search line, the result count, the header and the body.
func (t *Table[T]) View() string {
	var b strings.Builder
	if t.searchable {
		b.WriteString(t.searchLine())
		b.WriteByte('\n')
	}
	if count, ok := t.CountMessage(); ok {
		b.WriteString(ui.MutedStyle.Render(count))
		b.WriteByte('\n')
	}
	b.WriteString(t.TableView())
	return b.String()
}

// TableView renders the header and body only
func (t *Table[T]) TableView() string {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Header
	}

	var cells [][]string
	if t.Body() == BodyRows {
		cells = t.Cells()
	}
	widths := columnWidths(headers, cells)

	var b strings.Builder
	b.WriteString(ui.HeaderStyle.Render(formatLine(headers, widths)))
	b.WriteByte('\n')
	b.WriteString(ui.MutedStyle.Render(separator(widths)))
	b.WriteByte('\n')

	if msg := t.Message(); msg != "" {
		b.WriteString(ui.MutedStyle.Render(msg))
		b.WriteByte('\n')
		return b.String()
	}
	for _, line := range cells {
		b.WriteString(formatLine(line, widths))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table[T]) searchLine() string {
	if t.query == "" {
		return "Search: " + ui.MutedStyle.Render(t.placeholder)
	}
	return "Search: " + t.query
}

func columnWidths(headers []string, cells [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, line := range cells {
		for i, cell := range line {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	return widths
}

func formatLine(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(cell, "\n", " ")
		if runewidth.StringWidth(cell) > widths[i] {
			cell = runewidth.Truncate(cell, widths[i], "…")
		}
		parts[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}

func separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return strings.Join(parts, columnGap)
}
