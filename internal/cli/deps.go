// Package cli provides the Cobra command tree and dependency wiring for the
// ccscaffold CLI. This file defines the Dependencies struct (composition
// root) that wires configuration, the module registry and the terminal UI.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/modu-ai/ccscaffold/internal/config"
	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/prompt"
	"github.com/modu-ai/ccscaffold/internal/template"
	"github.com/modu-ai/ccscaffold/internal/ui"
)

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated and wired together.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *module.Registry
	Renderer template.Renderer
	Theme    *ui.Theme
	Headless *ui.HeadlessManager

	// NewAsker opens the prompt backend selected by Config.Prompt. The
	// returned function releases the terminal.
	NewAsker func() (prompt.Asker, func() error, error)
}

// deps is the global dependencies instance, built by ensureDependencies
// unless a test installed one with SetDeps.
var deps *Dependencies

// GetDeps returns the current Dependencies instance, or nil before the
// first command ran.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// ensureDependencies is the root PersistentPreRunE.
func ensureDependencies(cmd *cobra.Command, _ []string) error {
	if deps != nil {
		return nil
	}
	d, err := InitDependencies(cmd)
	if err != nil {
		return err
	}
	deps = d
	return nil
}

// InitDependencies loads the configuration selected by cmd's persistent
// flags and wires every dependency from it.
func InitDependencies(cmd *cobra.Command) (*Dependencies, error) {
	loader := config.NewLoader()
	for key, flag := range map[string]string{"no_color": "no-color", "prompt": "prompt"} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := loader.BindFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	cfg, err := loader.Load(getStringFlag(cmd, "config"))
	if err != nil {
		return nil, err
	}

	logger := config.NewLogger(cfg, cmd.ErrOrStderr(), getBoolFlag(cmd, "verbose"))
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}

	reg, err := loadRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	theme := ui.NewTheme(cfg.NoColor)
	hm := ui.NewHeadlessManager()
	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Renderer: template.NewRenderer(),
		Theme:    theme,
		Headless: hm,
		NewAsker: func() (prompt.Asker, func() error, error) {
			return ui.NewAsker(cfg.Prompt, theme, hm)
		},
	}, nil
}

// loadRegistry returns the bundled registry, overlaid with registry_dir when
// one is configured.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*module.Registry, error) {
	reg, err := module.Default()
	if err != nil {
		return nil, fmt.Errorf("load bundled registry: %w", err)
	}
	if cfg.RegistryDir == "" {
		return reg, nil
	}
	user, err := module.LoadRegistryDir(cfg.RegistryDir)
	if err != nil {
		return nil, fmt.Errorf("load registry_dir: %w", err)
	}
	logger.Debug("user registry merged", "dir", cfg.RegistryDir, "modules", user.Len())
	return reg.Merge(user), nil
}
