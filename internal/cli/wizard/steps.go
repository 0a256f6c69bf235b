package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/prompt"
	engine "github.com/modu-ai/ccscaffold/internal/wizard"
)

const maxProjectNameLength = 64

// Steps builds the scaffolding step list for the registry in opts: project
// name, categories, one module picker per category present in the
// registry, and the final confirmation.
func Steps(asker prompt.Asker, opts Options) ([]engine.Step, error) {
	if opts.Registry == nil {
		return nil, ErrNoRegistry
	}
	categories := opts.Registry.Categories()
	if len(categories) == 0 {
		return nil, ErrEmptyRegistry
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	steps := []engine.Step{
		projectNameStep(asker, opts, 0),
		categoriesStep(asker, opts, categories, 1),
	}
	for i, c := range categories {
		steps = append(steps, modulesStep(asker, opts, c, 2+i, logger))
	}
	steps = append(steps, confirmStep(asker, opts, len(steps)))
	return steps, nil
}

// NormalizeProjectName trims s and converts it to Unicode NFC.
func NormalizeProjectName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateProjectName checks a normalized project name.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return errors.New("project name is required")
	case utf8.RuneCountInString(name) > maxProjectNameLength:
		return fmt.Errorf("project name must be at most %d characters", maxProjectNameLength)
	case strings.ContainsAny(name, `/\`):
		return errors.New("project name must not contain path separators")
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return errors.New("project name must not contain control characters")
	}
	return nil
}

func projectNameStep(asker prompt.Asker, opts Options, index int) engine.Step {
	return engine.TypedStep(engine.StepMetadata{
		ID:          StepProjectName,
		Name:        "Project name",
		Description: "Name used in generated docs and templates",
		Index:       index,
		Required:    true,
	}, engine.TypedStepFuncs[string]{
		Defaults: func(engine.Context) string { return opts.DefaultName },
		Execute: func(ctx context.Context, in engine.TypedInput[string]) (string, engine.Navigation, error) {
			v, err := asker.Input(ctx, prompt.InputSpec{
				Key:         StepProjectName,
				Message:     "Project name",
				Description: in.Error,
				Default:     in.Defaults,
				Validate: func(s string) error {
					return ValidateProjectName(NormalizeProjectName(s))
				},
			})
			if err != nil {
				return "", "", err
			}
			return NormalizeProjectName(v), engine.NavNext, nil
		},
		Validate: ValidateProjectName,
	})
}

func categoriesStep(asker prompt.Asker, opts Options, categories []module.Category, index int) engine.Step {
	return engine.TypedStep(engine.StepMetadata{
		ID:          StepCategories,
		Name:        "Categories",
		Description: "Kinds of assets to install",
		Index:       index,
		Required:    true,
	}, engine.TypedStepFuncs[[]string]{
		Defaults: func(engine.Context) []string {
			return preselectedCategories(opts)
		},
		Execute: func(ctx context.Context, in engine.TypedInput[[]string]) ([]string, engine.Navigation, error) {
			choices := make([]prompt.Choice, 0, len(categories))
			for _, c := range categories {
				n := len(opts.Registry.ByCategory(c))
				choices = append(choices, prompt.Choice{
					Label:       c.Label(),
					Value:       string(c),
					Description: fmt.Sprintf("%d available", n),
					Checked:     slices.Contains(in.Defaults, string(c)),
				})
			}
			values, err := asker.Checkbox(ctx, prompt.CheckboxSpec{
				Key:         StepCategories,
				Message:     "What would you like to set up?",
				Description: in.Error,
				Choices:     engine.InjectBackOption(choices, in.IsFirst),
			})
			if err != nil {
				return nil, "", err
			}
			if engine.IsBackSelected(values...) {
				return nil, engine.NavBack, nil
			}
			return values, engine.NavNext, nil
		},
		Validate: func(values []string) error {
			if len(values) == 0 {
				return errors.New("select at least one category")
			}
			return nil
		},
	})
}

// modulesStep lets the user pick modules of category c. Choices conflicting
// with modules picked in other categories, or already installed, are shown
// disabled.
func modulesStep(asker prompt.Asker, opts Options, c module.Category, index int, logger *slog.Logger) engine.Step {
	id := ModulesStepID(c)
	defs := opts.Registry.ByCategory(c)
	all := opts.Registry.All()

	// others is refreshed by every Execute and read by the Validate that
	// follows it.
	var others []string

	return engine.TypedStep(engine.StepMetadata{
		ID:          id,
		Name:        c.Label(),
		Description: fmt.Sprintf("Modules of category %s", c),
		Index:       index,
		DependsOn:   []string{StepCategories},
	}, engine.TypedStepFuncs[[]string]{
		Defaults: func(engine.Context) []string {
			var out []string
			for _, d := range defs {
				if slices.Contains(opts.Preselected, d.ID) {
					out = append(out, d.ID)
				}
			}
			return out
		},
		Skip: engine.MustSkipWhen(fmt.Sprintf("!(%q in %s)", string(c), StepCategories), logger),
		Execute: func(ctx context.Context, in engine.TypedInput[[]string]) ([]string, engine.Navigation, error) {
			others = selectedElsewhere(in.Context, opts, c)
			// Built over the whole registry so alternatives declared in other
			// categories are seen in both directions.
			var choices []prompt.Choice
			for _, ch := range module.CreateChoicesWithExclusivity(all, others, module.ChoiceOptions{
				Preselected:        in.Defaults,
				ShowConflictReason: opts.ShowConflictReason,
			}) {
				if d, ok := opts.Registry.Get(ch.Value); ok && d.Category == c {
					choices = append(choices, ch)
				}
			}
			values, err := asker.Checkbox(ctx, prompt.CheckboxSpec{
				Key:         id,
				Message:     fmt.Sprintf("Select %s", strings.ToLower(c.Label())),
				Description: in.Error,
				Choices:     engine.InjectBackOption(choices, in.IsFirst),
			})
			if err != nil {
				return nil, "", err
			}
			if engine.IsBackSelected(values...) {
				return nil, engine.NavBack, nil
			}
			return values, engine.NavNext, nil
		},
		Validate: func(values []string) error {
			mine := make(map[string]bool, len(values))
			for _, v := range values {
				mine[v] = true
			}
			var pairs []string
			for _, cf := range module.ValidateNoConflicts(append(slices.Clone(others), values...), all) {
				if mine[cf.Selected] || mine[cf.ConflictsWith] {
					pairs = append(pairs, cf.String())
				}
			}
			if len(pairs) > 0 {
				return fmt.Errorf("choose one of each set of alternatives: %s", strings.Join(pairs, "; "))
			}
			return nil
		},
	})
}

func confirmStep(asker prompt.Asker, opts Options, index int) engine.Step {
	return engine.TypedStep(engine.StepMetadata{
		ID:          StepConfirm,
		Name:        "Confirm",
		Description: "Review the selection",
		Index:       index,
		Required:    true,
	}, engine.TypedStepFuncs[bool]{
		Execute: func(ctx context.Context, in engine.TypedInput[bool]) (bool, engine.Navigation, error) {
			sel := SelectionFrom(in.Context, opts.Registry)
			ok, err := asker.Confirm(ctx, prompt.ConfirmSpec{
				Key:         StepConfirm,
				Message:     fmt.Sprintf("Install %d module(s) into %s?", len(sel.Modules), sel.ProjectName),
				Description: Summary(sel, opts.Registry),
				Default:     true,
			})
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, engine.NavBack, nil
			}
			return true, engine.NavNext, nil
		},
	})
}

// selectedElsewhere lists the installed ids plus the modules picked in every
// other category that is still chosen.
func selectedElsewhere(c engine.Context, opts Options, current module.Category) []string {
	out := slices.Clone(opts.Installed)
	chosen, _ := engine.Lookup[[]string](c, StepCategories)
	for _, cat := range opts.Registry.Categories() {
		if cat == current || !slices.Contains(chosen, string(cat)) {
			continue
		}
		ids, _ := engine.Lookup[[]string](c, ModulesStepID(cat))
		for _, id := range ids {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	return out
}

func preselectedCategories(opts Options) []string {
	var out []string
	for _, c := range opts.Registry.Categories() {
		for _, d := range opts.Registry.ByCategory(c) {
			if slices.Contains(opts.Preselected, d.ID) {
				out = append(out, string(c))
				break
			}
		}
	}
	return out
}
