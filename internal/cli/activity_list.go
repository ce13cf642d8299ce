package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/cli/pagination"
	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
	"github.com/rshade/ecopulse/internal/tui"
)

// ErrNotTerminal is returned when an interactive view is requested without a terminal.
var ErrNotTerminal = errors.New("interactive mode requires a terminal")

// listParams holds the flags of the list command.
type listParams struct {
	filter engine.ActivityFilter
	page        pagination.Params
	sort        string
	interactive bool
}

// activityPage is the JSON form of a listing.
type activityPage struct {
	Activities []engine.Activity `json:"activities"`
	Pagination pagination.Meta   `json:"pagination"`
}

// NewListCmd creates the "list" command.
func NewListCmd() *cobra.Command {
	var params listParams

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List logged activities",
		Example: `  # Diet activities in January, highest emissions first
  ecopulse list --category diet --from 2025-01-01 --to 2025-01-31 --sort emissions:desc

  # Second page of ten
  ecopulse list --page 2 --page-size 10

  # Browse, filter and delete activities in the terminal
  ecopulse list --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeList(cmd, params)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.filter.Category, "category", "", "only this category")
	f.StringVar(&params.filter.From, "from", "", "first day to include (YYYY-MM-DD)")
	f.StringVar(&params.filter.To, "to", "", "last day to include (YYYY-MM-DD)")
	f.IntVar(&params.page.Limit, "limit", pagination.DefaultLimit, "maximum rows (0 = all)")
	f.IntVar(&params.page.Offset, "offset", 0, "rows to skip")
	f.IntVar(&params.page.Page, "page", 0, "page number, starting at 1")
	f.IntVar(&params.page.PageSize, "page-size", 0, "rows per page")
	f.StringVar(&params.sort, "sort", "", "sort as field[:asc|desc]; fields: date, emissions, category, subcategory, quantity")
	f.BoolVarP(&params.interactive, "interactive", "i", false, "open the interactive activity browser")

	return cmd
}

func executeList(cmd *cobra.Command, params listParams) error {
	if err := params.page.Validate(); err != nil {
		return err
	}
	field, order, err := pagination.ParseSort(params.sort)
	if err != nil {
		return err
	}

	if params.interactive && !isWriterTerminal(cmd.OutOrStdout()) {
		return ErrNotTerminal
	}

	return withSession(cmd, func(s *session) error {
		matched, ferr := s.tracker.Activities(params.filter)
		if ferr != nil {
			return ferr
		}
		if params.interactive {
			return runActivityBrowser(cmd, s, matched)
		}
		sorted, serr := pagination.NewActivitySorter().Sort(matched, field, order)
		if serr != nil {
			return serr
		}
		rows := pagination.Apply(params.page, sorted)

		page := activityPage{Activities: rows, Pagination: pagination.NewMeta(params.page, len(sorted))}
		if handled, werr := writeStructured(cmd.OutOrStdout(), page, rows); handled {
			return werr
		}
		return renderActivityTable(cmd, rows, page.Pagination)
	})
}

// runActivityBrowser shows the matched activities in the Bubble Tea browser.
// Deletes go through the tracker, so badges and tips stay consistent.
func runActivityBrowser(cmd *cobra.Command, s *session, activities []engine.Activity) error {
	model := tui.NewActivityModel(cmd.Context(), activities, precision(), s.tracker.RemoveActivity)
	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running activity browser: %w", err)
	}
	if m, ok := final.(tui.ActivityModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func renderActivityTable(cmd *cobra.Command, rows []engine.Activity, meta pagination.Meta) error {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(out, "No activities found.")
		return nil
	}

	tw := newTable(out)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tTYPE\tQUANTITY\tCO2E")
	for _, a := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Timestamp.Format(engine.DayKeyLayout),
			a.Category,
			a.Subcategory,
			formatQuantity(a),
			formatKg(a.Emissions))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	if meta.TotalPages > 1 {
		_, _ = fmt.Fprintln(out, muted(out, fmt.Sprintf("Page %d of %d (%d activities)",
			meta.CurrentPage, meta.TotalPages, meta.TotalItems)))
	}
	return nil
}

// formatQuantity renders an activity quantity with its unit.
func formatQuantity(a engine.Activity) string {
	qty := greenops.FormatFloat(a.Quantity, precision())
	if unit := greenops.UnitFor(a.Category, a.Subcategory); unit != "" {
		return qty + " " + unit
	}
	return qty
}
