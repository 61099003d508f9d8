package table

import "strings"

// Filter keeps the rows where any searchable column contains query, ignoring
// case. A blank query, or searchable set to false, returns rows as given.
// Row order is preserved and rows is never modified.
func Filter[T any](rows []T, columns []Column[T], query string, searchable bool) []T {
	if !searchable || strings.TrimSpace(query) == "" {
		return rows
	}

	needle := strings.ToLower(query)
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if matches(row, columns, needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func matches[T any](row T, columns []Column[T], needle string) bool {
	for _, col := range columns {
		if !col.IsSearchable() {
			continue
		}
		if strings.Contains(strings.ToLower(col.text(row)), needle) {
			return true
		}
	}
	return false
}
