// Package wizard assembles the scaffolding questions (project name,
// categories, modules per category, confirmation) on top of the generic
// wizard engine.
package wizard

import (
	"errors"
	"io"
	"log/slog"

	"github.com/modu-ai/ccscaffold/internal/module"
)

// Step ids.
const (
	StepProjectName = "project_name"
	StepCategories  = "categories"
	StepConfirm     = "confirm"

	modulesStepPrefix = "modules_"
)

// ModulesStepID returns the id of the module picker for category c.
func ModulesStepID(c module.Category) string {
	return modulesStepPrefix + string(c)
}

// Error definitions for the scaffolding wizard.
var (
	// ErrNoRegistry is returned when Options carries no registry.
	ErrNoRegistry = errors.New("wizard: no module registry")
	// ErrEmptyRegistry is returned when the registry has no modules to offer.
	ErrEmptyRegistry = errors.New("wizard: registry has no modules")
)

// Selection is what the user chose.
type Selection struct {
	ProjectName string
	Categories  []module.Category
	// Modules holds module ids grouped by category, in registry order within
	// each category.
	Modules []string
}

// Options configures the scaffolding wizard.
type Options struct {
	Registry *module.Registry
	// Installed ids are treated as already selected when computing conflicts.
	Installed []string
	// DefaultName pre-fills the project name.
	DefaultName string
	// Preselected ids are checked on first display.
	Preselected []string

	AllowSkip          bool
	ShowProgress       bool
	ShowConflictReason bool

	Output io.Writer
	Logger *slog.Logger
}
