package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/greenops"
)

// Table layout.
const (
	tableMinWidth = 0
	tableTabWidth = 8
	tablePadding  = 2
)

// headingColor returns the Lip Gloss color used for section headings.
func headingColor() lipgloss.Color { return lipgloss.Color("39") }

// mutedColor returns the color used for secondary text.
func mutedColor() lipgloss.Color { return lipgloss.Color("246") }

// validateOutputFormat checks a --output value.
func validateOutputFormat(format string) error {
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatNDJSON:
		return nil
	default:
		return fmt.Errorf("%w: got %q (use table, json or ndjson)", config.ErrInvalidOutputFormat, format)
	}
}

// outputFormat returns the effective output format.
func outputFormat() string {
	return config.GetDefaultOutputFormat()
}

// precision returns the configured decimal places for kg values.
func precision() int {
	return config.GetOutputPrecision()
}

// isWriterTerminal reports whether w is a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// formatKg renders kg with the configured precision and separators.
func formatKg(kg float64) string {
	return greenops.FormatFloat(kg, precision()) + " kg"
}

// formatDecimal renders v without trailing zeros.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// writeNDJSON writes one compact JSON document per item.
func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding NDJSON output: %w", err)
		}
	}
	return nil
}

// writeStructured writes v as JSON, or items as NDJSON, per the output
// format. It reports false for table output so the caller renders text.
func writeStructured[T any](w io.Writer, v any, items []T) (bool, error) {
	switch outputFormat() {
	case config.FormatJSON:
		return true, writeJSON(w, v)
	case config.FormatNDJSON:
		return true, writeNDJSON(w, items)
	default:
		return false, nil
	}
}

// newTable returns a tabwriter for aligned columns.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, tableMinWidth, tableTabWidth, tablePadding, ' ', 0)
}

// writeHeading writes a section title, styled on a terminal and underlined
// otherwise.
func writeHeading(w io.Writer, title string) {
	if isWriterTerminal(w) {
		style := lipgloss.NewStyle().Bold(true).Foreground(headingColor())
		_, _ = fmt.Fprintln(w, style.Render(title))
		return
	}
	_, _ = fmt.Fprintln(w, title)
	_, _ = fmt.Fprintln(w, strings.Repeat("=", len([]rune(title))))
}

// muted dims s on a terminal.
func muted(w io.Writer, s string) string {
	if !isWriterTerminal(w) {
		return s
	}
	return lipgloss.NewStyle().Italic(true).Foreground(mutedColor()).Render(s)
}
