package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
)

// SortField is the column the activity browser orders by.
type SortField int

// Sort fields, cycled with 's'.
const (
	SortByDate SortField = iota
	SortByEmissions
	SortByCategory
	numSortFields
)

// RemoveFunc deletes an activity by id and reports whether it existed.
type RemoveFunc func(ctx context.Context, id string) (bool, error)

// ActivityRemovedMsg carries the outcome of a delete started from the browser.
type ActivityRemovedMsg struct {
	ID      string
	Removed bool
	Err     error
}

// ActivityModel is the Bubble Tea model for `ecopulse list --interactive`.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ActivityModel struct {
	state   ViewState
	allRows []engine.Activity
	rows    []engine.Activity
	ctx     context.Context
	remove  RemoveFunc

	table     table.Model
	textInput textinput.Model
	selected  int

	width      int
	height     int
	sortBy     SortField
	showFilter bool
	precision  int

	statusMsg string
	err       error
}

// NewActivityModel creates a browser over activities. remove may be nil, in
// which case the delete key is ignored.
func NewActivityModel(
	ctx context.Context,
	activities []engine.Activity,
	precision int,
	remove RemoveFunc,
) ActivityModel {
	rows := make([]engine.Activity, len(activities))
	copy(rows, activities)

	m := ActivityModel{
		state:     ViewStateList,
		allRows:   rows,
		ctx:       ctx,
		remove:    remove,
		textInput: newTextInput(),
		width:     defaultWidth,
		height:    defaultHeight,
		sortBy:    SortByDate,
		precision: precision,
	}
	m.applyFilter("")
	return m
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "category, type or id"
	ti.CharLimit = 64
	return ti
}

// Init initializes the model (Bubble Tea interface).
func (m ActivityModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m ActivityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	if removed, ok := msg.(ActivityRemovedMsg); ok {
		return m.handleRemoved(removed)
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateConfirm:
		return m.handleConfirmUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	case ViewStateError:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && isQuitKey(keyMsg) {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func isQuitKey(k tea.KeyMsg) bool {
	s := k.String()
	return s == keyQuit || s == keyCtrlC
}

func (m ActivityModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m ActivityModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		if m.selectCursor() {
			m.state = ViewStateDetail
		}
		return m, nil
	case keyD:
		if m.remove != nil && m.selectCursor() {
			m.state = ViewStateConfirm
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyS:
		m.sortBy = (m.sortBy + 1) % numSortFields
		m.refreshTable()
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m *ActivityModel) selectCursor() bool {
	m.selected = m.table.Cursor()
	return m.selected >= 0 && m.selected < len(m.rows)
}

func (m ActivityModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc:
		m.state = ViewStateList
		m.table.Focus()
	case keyD:
		if m.remove != nil {
			m.state = ViewStateConfirm
		}
	}
	return m, nil
}

func (m ActivityModel) handleConfirmUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyYes:
		if m.selected < 0 || m.selected >= len(m.rows) {
			m.state = ViewStateList
			return m, nil
		}
		m.state = ViewStateList
		return m, m.removeCmd(m.rows[m.selected].ID)
	case keyNo, keyEsc:
		m.state = ViewStateList
		m.statusMsg = ""
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	return m, nil
}

func (m ActivityModel) removeCmd(id string) tea.Cmd {
	remove := m.remove
	ctx := m.ctx
	return func() tea.Msg {
		removed, err := remove(ctx, id)
		return ActivityRemovedMsg{ID: id, Removed: removed, Err: err}
	}
}

func (m ActivityModel) handleRemoved(msg ActivityRemovedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = ViewStateError
		m.err = msg.Err
		return m, nil
	}
	if !msg.Removed {
		m.statusMsg = fmt.Sprintf("No activity with id %s", msg.ID)
		return m, nil
	}

	kept := make([]engine.Activity, 0, len(m.allRows))
	for _, a := range m.allRows {
		if a.ID != msg.ID {
			kept = append(kept, a)
		}
	}
	m.allRows = kept
	m.statusMsg = fmt.Sprintf("Removed %s", msg.ID)
	m.applyFilter(m.textInput.Value())
	return m, nil
}

// applyFilter keeps the rows whose category, type or id contain filterText.
func (m *ActivityModel) applyFilter(filterText string) {
	query := strings.ToLower(strings.TrimSpace(filterText))
	filtered := make([]engine.Activity, 0, len(m.allRows))
	for _, a := range m.allRows {
		if query == "" ||
			strings.Contains(strings.ToLower(a.Category), query) ||
			strings.Contains(strings.ToLower(a.Subcategory), query) ||
			strings.Contains(strings.ToLower(a.ID), query) {
			filtered = append(filtered, a)
		}
	}
	m.rows = filtered
	m.refreshTable()
}

// refreshTable re-sorts and rebuilds the table.
func (m *ActivityModel) refreshTable() {
	switch m.sortBy {
	case SortByDate:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].Timestamp.After(m.rows[j].Timestamp)
		})
	case SortByEmissions:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].Emissions > m.rows[j].Emissions
		})
	case SortByCategory:
		sort.SliceStable(m.rows, func(i, j int) bool {
			if m.rows[i].Category != m.rows[j].Category {
				return m.rows[i].Category < m.rows[j].Category
			}
			return m.rows[i].Subcategory < m.rows[j].Subcategory
		})
	}
	m.rebuildTable()
}

func (m *ActivityModel) rebuildTable() {
	m.table = m.buildActivityTable()
}

func (m *ActivityModel) buildActivityTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},     //nolint:mnd // Column width.
		{Title: "Category", Width: 14}, //nolint:mnd // Column width.
		{Title: "Type", Width: 16},     //nolint:mnd // Column width.
		{Title: "Quantity", Width: 16}, //nolint:mnd // Column width.
		{Title: "kg CO2e", Width: 12},  //nolint:mnd // Column width.
		{Title: "ID", Width: 26},       //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(m.rows))
	for i, a := range m.rows {
		rows[i] = table.Row{
			a.Timestamp.Format(engine.DayKeyLayout),
			a.Category,
			a.Subcategory,
			m.formatQuantity(a),
			greenops.FormatFloat(a.Emissions, m.precision),
			a.ID,
		}
	}

	availableHeight := m.height - chromeHeight
	if availableHeight < minHeight {
		availableHeight = minHeight
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(availableHeight),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

func (m ActivityModel) formatQuantity(a engine.Activity) string {
	qty := greenops.FormatFloat(a.Quantity, m.precision)
	if unit := greenops.UnitFor(a.Category, a.Subcategory); unit != "" {
		return qty + " " + unit
	}
	return qty
}

// Rows returns the filtered, sorted rows currently shown.
func (m ActivityModel) Rows() []engine.Activity {
	return m.rows
}

// Err returns the error that moved the model into its error state.
func (m ActivityModel) Err() error {
	return m.err
}
