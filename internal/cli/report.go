package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/modu-ai/ccscaffold/internal/installer"
	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/ui"
)

// ErrConflict is returned when the requested modules exclude each other or
// an installed module.
var ErrConflict = errors.New("modules cannot be installed together")

const renderWidth = 80

func conflictError(conflicts []module.Conflict) error {
	pairs := make([]string, len(conflicts))
	for i, c := range conflicts {
		pairs[i] = c.String()
	}
	return fmt.Errorf("%w: %s", ErrConflict, strings.Join(pairs, "; "))
}

// reportMarkdown summarizes an install report.
func reportMarkdown(r *installer.Report) string {
	var sb strings.Builder
	if r.DryRun {
		fmt.Fprintf(&sb, "## Dry run for %s\n\n", r.Root)
	} else {
		fmt.Fprintf(&sb, "## Installed %d module(s) into %s\n\n", len(r.Modules), r.Root)
	}
	fmt.Fprintf(&sb, "Modules: %s\n\n", strings.Join(r.Modules, ", "))

	for _, c := range r.Changes {
		line := fmt.Sprintf("- %s `%s`", c.Action, c.Path)
		if len(c.Modules) > 0 {
			line += " (" + strings.Join(c.Modules, ", ") + ")"
		}
		sb.WriteString(line + "\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("\n### Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString("- " + w + "\n")
		}
	}
	return sb.String()
}

// printReport renders the summary, followed by the diffs of a dry run.
func printReport(w io.Writer, r *installer.Report, noColor bool) {
	_, _ = fmt.Fprint(w, ui.RenderMarkdown(reportMarkdown(r), noColor, renderWidth))
	if !r.DryRun {
		return
	}
	for _, c := range r.Changes {
		if c.Diff != "" {
			_, _ = fmt.Fprint(w, "\n"+c.Diff)
		}
	}
}
