package table

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
)

// Loader fetches the rows of an interactive table
type Loader[T any] func(ctx context.Context) ([]T, error)

// RowsMsg replaces the rows and ends loading
type RowsMsg[T any] struct {
	Rows []T
}

// ColumnsMsg replaces the columns
type ColumnsMsg[T any] struct {
	Columns []Column[T]
}

type LoadingMsg struct {
	Loading bool
}

// ErrMsg ends loading and shows err as a banner
type ErrMsg struct {
	Err error
}

// Model is a bubbletea model around a Table with a live search box. Every
// keystroke re-filters the rows; Esc clears the search, or quits when it is
// already empty.
type Model[T any] struct {
	title   string
	table   Table[T]
	input   textinput.Model
	spinner spinner.Model
	load    Loader[T]
	ctx     context.Context
	err     error
}

// NewModel builds the model. When load is set the rows are fetched on Init and
// the table starts out loading.
func NewModel[T any](title string, columns []Column[T], load Loader[T], opts ...Option) Model[T] {
	t := New(columns, opts...)
	if load != nil {
		t.SetLoading(true)
	}

	input := textinput.New()
	input.Placeholder = t.Placeholder()
	input.Prompt = "Search: "
	input.Focus()

	return Model[T]{
		title:   title,
		table:   *t,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		load:    load,
		ctx:     context.Background(),
	}
}

// WithContext returns the model with ctx passed to every load
func (m Model[T]) WithContext(ctx context.Context) Model[T] {
	m.ctx = ctx
	return m
}

// Table returns a snapshot of the table state. Changes made through it do not
// reach the model; send RowsMsg, ColumnsMsg or LoadingMsg instead.
func (m Model[T]) Table() *Table[T] {
	snapshot := m.table
	return &snapshot
}

func (m Model[T]) Err() error {
	return m.err
}

func (m Model[T]) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadCmd())
}

func (m Model[T]) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		rows, err := load(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return RowsMsg[T]{Rows: rows}
	}
}

func (m Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.input.Value() == "" {
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.table.SetQuery("")
			return m, nil
		case tea.KeyCtrlR:
			if m.load == nil {
				return m, nil
			}
			m.err = nil
			m.table.SetLoading(true)
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}
		if !m.table.Searchable() {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.table.SetQuery(m.input.Value())
		return m, cmd

	case RowsMsg[T]:
		m.err = nil
		m.table.SetLoading(false)
		m.table.SetRows(msg.Rows)
		return m, nil

	case ColumnsMsg[T]:
		m.table.SetColumns(msg.Columns)
		return m, nil

	case LoadingMsg:
		m.table.SetLoading(msg.Loading)
		if msg.Loading {
			return m, m.spinner.Tick
		}
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		m.table.SetLoading(false)
		return m, nil

	case spinner.TickMsg:
		if !m.table.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model[T]) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(ui.TitleStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	if m.table.Searchable() {
		b.WriteString(m.input.View())
		b.WriteByte('\n')
		if count, ok := m.table.CountMessage(); ok {
			b.WriteString(ui.MutedStyle.Render(count))
			b.WriteByte('\n')
		}
	}
	if m.err != nil {
		b.WriteString(ui.ErrorBanner(m.err.Error()))
		b.WriteByte('\n')
	}
	if m.table.Loading() {
		b.WriteString(m.spinner.View())
		b.WriteByte('\n')
	}
	b.WriteString(m.table.TableView())
	b.WriteString(ui.MutedStyle.Render("esc clear/quit • ctrl+r reload"))
	b.WriteByte('\n')
	return b.String()
}
