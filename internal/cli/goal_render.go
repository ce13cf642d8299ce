package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
)

// Goal box layout.
const (
	defaultBoxWidth     = 44
	minBoxWidth         = 30
	progressBarWidth    = 30
	minProgressBarWidth = 10
	progressFilledChar  = "█"
	progressEmptyChar   = "░"
	narrowTerminalWidth = 40
	boxPaddingWidth     = 4
	layoutWidthPercent  = 0.8
	barPaddingWidth     = 14
)

func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

func colorWarning() lipgloss.Color { return lipgloss.Color("214") }

func colorApproaching() lipgloss.Color { return lipgloss.Color("220") }

func progressOKColor() lipgloss.Color { return lipgloss.Color("42") }

func progressExceededColor() lipgloss.Color { return lipgloss.Color("196") }

// RenderGoalStatus writes the weekly goal box on a terminal and plain text
// otherwise. Nothing is written when no goal is set.
func RenderGoalStatus(w io.Writer, st engine.GoalStatus) error {
	if st.Goal <= 0 {
		_, err := fmt.Fprintln(w, "No weekly goal set. Use `ecopulse goal set <kg>`.")
		return err
	}
	if isWriterTerminal(w) {
		return renderStyledGoal(w, st)
	}
	return renderPlainGoal(w, st)
}

func renderStyledGoal(w io.Writer, st engine.GoalStatus) error {
	boxWidth := calculateBoxWidth(getTerminalWidth(w))
	barWidth := calculateProgressBarWidth(boxWidth)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(headingColor())
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	p := message.NewPrinter(language.English)
	var content strings.Builder

	content.WriteString(titleStyle.Render("WEEKLY GOAL"))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", boxWidth-boxPaddingWidth))
	content.WriteString("\n\n")
	content.WriteString(p.Sprintf("Week: %s to %s\n", st.WeekStart.Format(engine.DayKeyLayout),
		st.WeekEnd.AddDate(0, 0, -1).Format(engine.DayKeyLayout)))
	content.WriteString(p.Sprintf("Goal: %s\n", formatKg(st.Goal)))
	content.WriteString(p.Sprintf("This week: %s (%.1f%%)\n\n", formatKg(st.WeekFootprint), st.PercentUsed))
	content.WriteString(renderProgressBar(st, barWidth))
	content.WriteString("\n")

	if alerts := renderAlertMessages(st); alerts != "" {
		content.WriteString("\n")
		content.WriteString(alerts)
		content.WriteString("\n")
	}

	if st.Forecast > 0 {
		content.WriteString("\n")
		line := p.Sprintf("Forecast: %s (%.1f%%)", formatKg(st.Forecast), st.ForecastPercent)
		content.WriteString(lipgloss.NewStyle().Italic(true).Foreground(mutedColor()).Render(line))
	}

	_, err := fmt.Fprintln(w, borderStyle.Render(content.String()))
	return err
}

func renderPlainGoal(w io.Writer, st engine.GoalStatus) error {
	p := message.NewPrinter(language.English)

	if _, err := fmt.Fprintln(w, "WEEKLY GOAL"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "==========="); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "Goal: %s\n", formatKg(st.Goal)); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "This week: %s (%.1f%%)\n", formatKg(st.WeekFootprint), st.PercentUsed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Status: %s\n", goalStatusMessage(st)); err != nil {
		return err
	}
	if st.Forecast > 0 {
		if _, err := p.Fprintf(w, "Forecast: %s (%.1f%%)\n", formatKg(st.Forecast), st.ForecastPercent); err != nil {
			return err
		}
	}
	return nil
}

func renderProgressBar(st engine.GoalStatus, width int) string {
	filledWidth := int(st.CappedPercentage() / engine.PercentageMultiplier * float64(width))
	emptyWidth := width - filledWidth

	filledStyle := lipgloss.NewStyle().Foreground(progressBarColor(st.Health))
	emptyStyle := lipgloss.NewStyle().Foreground(boxBorderColor())

	filled := filledStyle.Render(strings.Repeat(progressFilledChar, filledWidth))
	empty := emptyStyle.Render(strings.Repeat(progressEmptyChar, emptyWidth))

	label := fmt.Sprintf(" %.0f%%", st.PercentUsed)
	if st.Health == engine.GoalHealthExceeded {
		label = lipgloss.NewStyle().Foreground(progressExceededColor()).Bold(true).Render(label)
	}
	return filled + empty + label
}

func progressBarColor(h engine.GoalHealth) lipgloss.Color {
	switch h {
	case engine.GoalHealthExceeded:
		return progressExceededColor()
	case engine.GoalHealthWarning, engine.GoalHealthCritical:
		return colorWarning()
	default:
		return progressOKColor()
	}
}

func renderAlertMessages(st engine.GoalStatus) string {
	var messages []string
	for _, alert := range st.Alerts {
		switch alert.Status {
		case engine.ThresholdStatusExceeded:
			style := lipgloss.NewStyle().Foreground(colorWarning()).Bold(true)
			messages = append(messages, style.Render("⚠ "+formatAlertMessage(alert, "WARNING")))
		case engine.ThresholdStatusApproaching:
			style := lipgloss.NewStyle().Foreground(colorApproaching())
			messages = append(messages, style.Render("◉ "+formatAlertMessage(alert, "APPROACHING")))
		case engine.ThresholdStatusOK:
		}
	}
	return strings.Join(messages, "\n")
}

func formatAlertMessage(alert engine.ThresholdStatus, prefix string) string {
	kind := "footprint"
	if alert.Type == config.AlertTypeForecasted {
		kind = "forecasted footprint"
	}
	return fmt.Sprintf("%s - %s exceeds %.0f%% threshold", prefix, kind, alert.Threshold)
}

// goalStatusMessage is the one-line status used in plain output.
func goalStatusMessage(st engine.GoalStatus) string {
	highest := 0.0
	approaching := false
	for _, a := range st.Alerts {
		switch a.Status {
		case engine.ThresholdStatusExceeded:
			highest = max(highest, a.Threshold)
		case engine.ThresholdStatusApproaching:
			approaching = true
		case engine.ThresholdStatusOK:
		}
	}
	switch {
	case highest > 0:
		return fmt.Sprintf("WARNING - Exceeds %.0f%% threshold", highest)
	case approaching:
		return "APPROACHING - Near goal threshold"
	case st.Celebrate:
		return "OK - On track, nice work"
	default:
		return "OK - Within goal"
	}
}

// getTerminalWidth returns the width of w, falling back to stdout and then
// to the default box width.
func getTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultBoxWidth + boxPaddingWidth
	}
	return width
}

func calculateBoxWidth(termWidth int) int {
	if termWidth < narrowTerminalWidth {
		return minBoxWidth
	}
	boxWidth := int(float64(termWidth) * layoutWidthPercent)
	boxWidth = min(boxWidth, defaultBoxWidth)
	return max(boxWidth, minBoxWidth)
}

func calculateProgressBarWidth(boxWidth int) int {
	barWidth := boxWidth - barPaddingWidth
	barWidth = max(barWidth, minProgressBarWidth)
	return min(barWidth, progressBarWidth)
}
