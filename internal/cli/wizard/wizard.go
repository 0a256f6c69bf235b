package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/prompt"
	engine "github.com/modu-ai/ccscaffold/internal/wizard"
)

const fallbackProjectName = "my-project"

// Run walks the user through the scaffolding questions. A cancelled run
// returns prompt.ErrCancelled.
func Run(ctx context.Context, asker prompt.Asker, opts Options) (*Selection, error) {
	steps, err := Steps(asker, opts)
	if err != nil {
		return nil, err
	}

	res, err := engine.Run(ctx, engine.Config{
		Title:        "ccscaffold init",
		Steps:        steps,
		AllowSkip:    opts.AllowSkip,
		ShowProgress: opts.ShowProgress,
		Asker:        asker,
		Output:       opts.Output,
		Logger:       opts.Logger,
	}, nil)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, prompt.ErrCancelled
	}

	sel := SelectionFrom(res.Values, opts.Registry)
	return &sel, nil
}

// SelectionFrom extracts the selection from step values. Module picks of
// categories that are no longer chosen are dropped, as are ids the registry
// does not know.
func SelectionFrom(values map[string]any, reg *module.Registry) Selection {
	var sel Selection
	if name, ok := values[StepProjectName].(string); ok {
		sel.ProjectName = name
	}
	chosen, _ := values[StepCategories].([]string)
	for _, c := range reg.Categories() {
		if !slices.Contains(chosen, string(c)) {
			continue
		}
		sel.Categories = append(sel.Categories, c)
		picked, _ := values[ModulesStepID(c)].([]string)
		for _, d := range reg.ByCategory(c) {
			if slices.Contains(picked, d.ID) && !slices.Contains(sel.Modules, d.ID) {
				sel.Modules = append(sel.Modules, d.ID)
			}
		}
	}
	return sel
}

// Summary renders sel as markdown, one section per category.
func Summary(sel Selection, reg *module.Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", sel.ProjectName)
	if len(sel.Modules) == 0 {
		sb.WriteString("No modules selected.\n")
		return sb.String()
	}
	for _, c := range sel.Categories {
		var lines []string
		for _, id := range sel.Modules {
			d, ok := reg.Get(id)
			if !ok || d.Category != c {
				continue
			}
			line := "- **" + d.DisplayName() + "**"
			if d.Description != "" {
				line += ": " + d.Description
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n%s\n\n", c.Label(), strings.Join(lines, "\n"))
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// DefaultProjectName derives a project name from the target directory.
func DefaultProjectName(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	name := NormalizeProjectName(filepath.Base(abs))
	if name == "" || name == "." || name == string(filepath.Separator) || ValidateProjectName(name) != nil {
		return fallbackProjectName
	}
	return name
}
