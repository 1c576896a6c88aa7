package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/tmplsync/pkg/bundles"
	"github.com/arthur-debert/tmplsync/pkg/materialize"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	createStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	updateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	deleteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

func init() {
	// lipgloss renders through termenv; force plain output when stdout
	// is not a terminal so piped output stays clean
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func dispositionStyle(d types.Disposition) lipgloss.Style {
	switch d {
	case types.DispositionCreate:
		return createStyle
	case types.DispositionUpdateClean:
		return updateStyle
	case types.DispositionUpdateConflict:
		return conflictStyle
	case types.DispositionDeleteCandidate:
		return deleteStyle
	default:
		return dimStyle
	}
}

// renderPlan prints one line per entry that would change something,
// followed by a summary of counts per disposition
func renderPlan(w io.Writer, plan *types.SyncPlan) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Plan against %s", plan.SourceRef)))

	if !plan.HasChanges() {
		fmt.Fprintln(w, dimStyle.Render("Nothing to do, everything is in sync."))
		return
	}

	for _, entry := range plan.Entries {
		if entry.Disposition == types.DispositionSkipUnchanged {
			continue
		}
		style := dispositionStyle(entry.Disposition)
		fmt.Fprintf(w, "  %s  %s\n", style.Render(fmt.Sprintf("%-16s", entry.Disposition)), entry.Path)
	}

	counts := plan.CountByDisposition()
	fmt.Fprintf(w, "\n%d create, %d update, %d conflict, %d delete candidate, %d unchanged\n",
		counts[types.DispositionCreate],
		counts[types.DispositionUpdateClean],
		counts[types.DispositionUpdateConflict],
		counts[types.DispositionDeleteCandidate],
		counts[types.DispositionSkipUnchanged])
}

func renderResult(w io.Writer, plan *types.SyncPlan, result *materialize.Result) {
	for _, p := range result.Written {
		fmt.Fprintf(w, "  %s  %s\n", updateStyle.Render("synced"), p)
	}
	for _, p := range result.KeptLocal {
		fmt.Fprintf(w, "  %s  %s\n", conflictStyle.Render("kept"), p)
	}
	for _, p := range result.Deleted {
		fmt.Fprintf(w, "  %s  %s\n", deleteStyle.Render("deleted"), p)
	}
	fmt.Fprintf(w, "\n%d synced, %d kept local, %d deleted, %d unchanged (ref %s)\n",
		len(result.Written), len(result.KeptLocal), len(result.Deleted),
		result.Unchanged, plan.SourceRef)
}

type statusRow struct {
	Path      string
	SourceRef string
	State     string
}

func renderStatus(w io.Writer, rows []statusRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tracked files. Run 'tmplsync apply' first."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Tracked files"))
	for _, row := range rows {
		style := dimStyle
		switch row.State {
		case "modified":
			style = conflictStyle
		case "missing", "unreadable":
			style = deleteStyle
		}
		fmt.Fprintf(w, "  %s  %s %s\n", style.Render(fmt.Sprintf("%-10s", row.State)),
			row.Path, dimStyle.Render("("+row.SourceRef+")"))
	}
}

func renderBundles(w io.Writer, graph *bundles.Graph, expansion *bundles.Expansion) {
	selected := make(map[types.BundleID]bool, len(expansion.Selected))
	for _, id := range expansion.Selected {
		selected[id] = true
	}
	recommended := make(map[types.BundleID]bool, len(expansion.Recommended))
	for _, id := range expansion.Recommended {
		recommended[id] = true
	}

	fmt.Fprintln(w, headerStyle.Render("Bundles"))
	for _, id := range graph.IDs() {
		bundle, _ := graph.Get(id)
		marker := dimStyle.Render("   ")
		switch {
		case selected[id]:
			marker = createStyle.Render(" * ")
		case recommended[id]:
			marker = updateStyle.Render(" ~ ")
		}
		fmt.Fprintf(w, "%s%s", marker, id)
		if bundle.Description != "" {
			fmt.Fprintf(w, "  %s", dimStyle.Render(bundle.Description))
		}
		fmt.Fprintln(w)
	}
	if len(expansion.Recommended) > 0 {
		fmt.Fprintln(w, dimStyle.Render("\n* selected (including requires)   ~ recommended, not selected"))
	} else {
		fmt.Fprintln(w, dimStyle.Render("\n* selected (including requires)"))
	}
}
