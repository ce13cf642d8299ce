package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
)

// View renders the current view (Bubble Tea interface).
func (m ActivityModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" +
			SubtleStyle.Render("Press 'q' to quit") + "\n"
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateConfirm:
		return m.renderConfirmView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m ActivityModel) renderListView() string {
	var sections []string

	if len(m.allRows) == 0 {
		sections = append(sections, SubtleStyle.Render("No activities logged yet."))
	} else {
		sections = append(sections, m.table.View())
	}

	if m.statusMsg != "" {
		sections = append(sections, InfoStyle.Render(m.statusMsg))
	}
	sections = append(sections, m.renderStatusBar())

	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ActivityModel) renderStatusBar() string {
	filterStatus := ""
	if m.textInput.Value() != "" {
		filterStatus = fmt.Sprintf(" | Filtered: %d/%d", len(m.rows), len(m.allRows))
	}

	keys := "'s' sort, '/' filter, enter details, 'q' quit"
	if m.remove != nil {
		keys = "'s' sort, '/' filter, enter details, 'd' delete, 'q' quit"
	}

	return SubtleStyle.Render(fmt.Sprintf("Sort: %s%s | %s", m.sortLabel(), filterStatus, keys))
}

func (m ActivityModel) sortLabel() string {
	switch m.sortBy {
	case SortByDate:
		return "Date"
	case SortByEmissions:
		return "Emissions"
	case SortByCategory:
		return "Category"
	default:
		return "Unknown"
	}
}

func (m ActivityModel) selectedActivity() (engine.Activity, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return engine.Activity{}, false
	}
	return m.rows[m.selected], true
}

func (m ActivityModel) renderDetailView() string {
	a, ok := m.selectedActivity()
	if !ok {
		return msgSelectedOutOfBounds
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("ACTIVITY DETAIL"))
	content.WriteString("\n\n")
	writeField(&content, "ID:       ", a.ID)
	writeField(&content, "Date:     ", a.Timestamp.Format(engine.DayKeyLayout))
	writeField(&content, "Category: ", a.Category)
	writeField(&content, "Type:     ", a.Subcategory)
	writeField(&content, "Quantity: ", m.formatQuantity(a))
	writeField(&content, "CO2e:     ", greenops.FormatFloat(a.Emissions, m.precision)+" kg")

	if eq := greenops.ForFootprint(a.Emissions); !eq.IsEmpty && eq.DisplayText != "" {
		content.WriteString("\n")
		content.WriteString(SubtleStyle.Render(eq.DisplayText))
		content.WriteString("\n")
	}

	if !greenops.IsKnownPair(a.Category, a.Subcategory) {
		content.WriteString("\n")
		content.WriteString(WarningStyle.Render("Not in the factor table; counted as 0 kg"))
		content.WriteString("\n")
	}

	help := "\nPress ESC to return"
	if m.remove != nil {
		help = "\nPress ESC to return, 'd' to delete"
	}
	content.WriteString(SubtleStyle.Render(help))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(label))
	b.WriteString(ValueStyle.Render(value))
	b.WriteString("\n")
}

func (m ActivityModel) renderConfirmView() string {
	a, ok := m.selectedActivity()
	if !ok {
		return msgSelectedOutOfBounds
	}
	prompt := fmt.Sprintf("Delete %s %s on %s (%s kg CO2e)? [y/N]",
		a.Category,
		a.Subcategory,
		a.Timestamp.Format(engine.DayKeyLayout),
		greenops.FormatFloat(a.Emissions, m.precision))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.table.View(),
		WarningStyle.Render(prompt),
	)
}
