package table

import "fmt"

const (
	DefaultEmptyMessage      = "No data available"
	DefaultSearchPlaceholder = "Search..."
	LoadingMessage           = "Loading..."
	NoResultsMessage         = "No results found"
)

type settings struct {
	loading      bool
	emptyMessage string
	searchable   bool
	placeholder  string
}

type Option func(*settings)

func WithLoading(loading bool) Option {
	return func(s *settings) {
		s.loading = loading
	}
}

func WithEmptyMessage(msg string) Option {
	return func(s *settings) {
		s.emptyMessage = msg
	}
}

func WithSearchable(searchable bool) Option {
	return func(s *settings) {
		s.searchable = searchable
	}
}

func WithSearchPlaceholder(placeholder string) Option {
	return func(s *settings) {
		s.placeholder = placeholder
	}
}

// BodyState is what the table body shows
type BodyState int

const (
	BodyLoading BodyState = iota
	BodyEmpty
	BodyRows
)

// Table holds rows, columns and the current query. The filtered rows are
// recomputed whenever any of them changes.
type Table[T any] struct {
	settings
	columns  []Column[T]
	rows     []T
	filtered []T
	query    string
}

func New[T any](columns []Column[T], opts ...Option) *Table[T] {
	t := &Table[T]{
		settings: settings{
			emptyMessage: DefaultEmptyMessage,
			searchable:   true,
			placeholder:  DefaultSearchPlaceholder,
		},
		columns: columns,
	}
	for _, opt := range opts {
		opt(&t.settings)
	}
	t.refilter()
	return t
}

func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	t.refilter()
}

func (t *Table[T]) SetColumns(columns []Column[T]) {
	t.columns = columns
	t.refilter()
}

func (t *Table[T]) SetQuery(query string) {
	t.query = query
	t.refilter()
}

func (t *Table[T]) SetLoading(loading bool) {
	t.loading = loading
}

func (t *Table[T]) SetEmptyMessage(msg string) {
	t.emptyMessage = msg
}

func (t *Table[T]) SetSearchable(searchable bool) {
	t.searchable = searchable
	t.refilter()
}

func (t *Table[T]) Rows() []T            { return t.rows }
func (t *Table[T]) Filtered() []T        { return t.filtered }
func (t *Table[T]) Columns() []Column[T] { return t.columns }
func (t *Table[T]) Query() string        { return t.query }
func (t *Table[T]) Loading() bool        { return t.loading }
func (t *Table[T]) Searchable() bool     { return t.searchable }
func (t *Table[T]) EmptyMessage() string { return t.emptyMessage }
func (t *Table[T]) Placeholder() string  { return t.placeholder }

// Body reports which of loading, empty or rows the body shows. Loading wins
// over everything else.
func (t *Table[T]) Body() BodyState {
	switch {
	case t.loading:
		return BodyLoading
	case len(t.filtered) == 0:
		return BodyEmpty
	default:
		return BodyRows
	}
}

// Message is the single line shown in place of rows, empty when rows are shown
func (t *Table[T]) Message() string {
	switch t.Body() {
	case BodyLoading:
		return LoadingMessage
	case BodyEmpty:
		if t.query != "" {
			return NoResultsMessage
		}
		return t.emptyMessage
	default:
		return ""
	}
}

// CountMessage is "Showing K of N results" while a search is active
func (t *Table[T]) CountMessage() (string, bool) {
	if !t.searchable || t.query == "" {
		return "", false
	}
	return fmt.Sprintf("Showing %d of %d results", len(t.filtered), len(t.rows)), true
}

// Cells returns the rendered cells of the filtered rows, in column order
func (t *Table[T]) Cells() [][]string {
	cells := make([][]string, 0, len(t.filtered))
	for _, row := range t.filtered {
		line := make([]string, len(t.columns))
		for i, col := range t.columns {
			line[i] = col.Cell(row)
		}
		cells = append(cells, line)
	}
	return cells
}

func (t *Table[T]) refilter() {
	t.filtered = Filter(t.rows, t.columns, t.query, t.searchable)
}
