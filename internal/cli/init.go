package cli

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/ccscaffold/internal/cli/wizard"
	"github.com/modu-ai/ccscaffold/internal/installer"
	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/prompt"
	"github.com/modu-ai/ccscaffold/internal/template"
	"github.com/modu-ai/ccscaffold/internal/ui"
	"github.com/modu-ai/ccscaffold/pkg/version"
)

var (
	// ErrModulesRequired is returned by init --non-interactive without --modules.
	ErrModulesRequired = errors.New("--modules is required with --non-interactive")
	// ErrInvalidAnswer is returned for an --answer value that is not key=value.
	ErrInvalidAnswer = errors.New("invalid --answer, want step=value")
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Set up Claude Code assets in a project",
	Long: `Set up Claude Code assets in a project.

Without --modules an interactive wizard asks for the project name, the
kinds of assets to install and the modules of each kind. Modules that
conflict with an earlier pick, or with a module already installed, are
shown but cannot be selected.

Examples:
  ccscaffold init                      Run the wizard in the current directory
  ccscaffold init my-app               Create ./my-app and run the wizard there
  ccscaffold init --modules prettier,code-reviewer --non-interactive
  ccscaffold init --dry-run            Show the diff of every file instead of writing

When stdin is not a terminal (or with --prompt headless) every question is
answered without prompting: from --answer, then the answers: map of the
config file, then the question's default. --preselect and the
wizard.preselected config key set those defaults:
  ccscaffold init --prompt headless --preselect project-doc,biome
  ccscaffold init --prompt headless --answer categories=agent --answer modules_agent=code-reviewer`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "Project name (default: directory name)")
	initCmd.Flags().String("modules", "", "Comma-separated module ids to install without the wizard")
	initCmd.Flags().Bool("non-interactive", false, "Never prompt; requires --modules")
	initCmd.Flags().Bool("dry-run", false, "Print the changes as unified diffs without writing")
	initCmd.Flags().Bool("force", false, "Overwrite existing files and let module values win in merged files")
	initCmd.Flags().StringArray("answer", nil, "Answer a wizard question when prompts run headless, as step=value (repeatable)")
	initCmd.Flags().String("preselect", "", "Comma-separated module ids checked when the wizard opens")
}

// runInit resolves the module selection, from flags or the wizard, and
// installs it.
func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dryRun := getBoolFlag(cmd, "dry-run")

	root, err := projectRoot(args, !dryRun)
	if err != nil {
		return err
	}
	manifest, err := installer.ReadManifest(root)
	if err != nil {
		return err
	}

	name := getStringFlag(cmd, "name")
	if name != "" {
		name = wizard.NormalizeProjectName(name)
		if err := wizard.ValidateProjectName(name); err != nil {
			return fmt.Errorf("invalid --name: %w", err)
		}
	}

	var ids []string
	switch requested := splitIDs(getStringFlag(cmd, "modules")); {
	case len(requested) > 0:
		ids = requested
		if name == "" {
			name = wizard.DefaultProjectName(root)
		}
	case getBoolFlag(cmd, "non-interactive"):
		return ErrModulesRequired
	default:
		if name == "" {
			name = wizard.DefaultProjectName(root)
		}
		sel, err := runWizard(cmd, manifest, name)
		if prompt.IsCancelled(err) {
			_, _ = fmt.Fprintln(out, "Setup cancelled; nothing was written.")
			return nil
		}
		if err != nil {
			return err
		}
		name, ids = sel.ProjectName, sel.Modules
	}

	if len(ids) == 0 {
		_, _ = fmt.Fprintln(out, "No modules selected; nothing to do.")
		return nil
	}
	mods, err := resolveSelection(manifest.Modules, ids)
	if err != nil {
		return err
	}
	return install(cmd, root, name, mods, dryRun)
}

// runWizard asks the scaffolding questions with the configured prompt mode.
// Headless answers and preselected modules come from the config file,
// overridden by --answer and extended by --preselect.
func runWizard(cmd *cobra.Command, manifest *installer.Manifest, name string) (*wizard.Selection, error) {
	flagAnswers, err := cmd.Flags().GetStringArray("answer")
	if err != nil {
		return nil, err
	}
	answers, err := headlessAnswers(deps.Config.Answers, flagAnswers)
	if err != nil {
		return nil, err
	}
	deps.Headless.SetAnswers(answers)

	ids := slices.Concat(deps.Config.Wizard.Preselected, []string{getStringFlag(cmd, "preselect")})
	preselected := splitIDs(strings.Join(ids, ","))
	if _, err := deps.Registry.Resolve(preselected); err != nil {
		return nil, fmt.Errorf("preselected modules: %w", err)
	}
	if conflicts := module.ValidateNoConflicts(preselected, deps.Registry.All()); len(conflicts) > 0 {
		return nil, fmt.Errorf("preselected modules: %w", conflictError(conflicts))
	}

	asker, closeAsker, err := deps.NewAsker()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeAsker() }()

	cfg := deps.Config.Wizard
	return wizard.Run(cmd.Context(), asker, wizard.Options{
		Registry:           deps.Registry,
		Installed:          manifest.Modules,
		DefaultName:        name,
		Preselected:        preselected,
		AllowSkip:          cfg.AllowSkip,
		ShowProgress:       cfg.ShowProgress,
		ShowConflictReason: cfg.ShowConflictReason,
		Output:             cmd.ErrOrStderr(),
		Logger:             deps.Logger,
	})
}

// headlessAnswers merges the configured answers with step=value flags; flags
// win.
func headlessAnswers(configured map[string]string, flags []string) (map[string]string, error) {
	answers := maps.Clone(configured)
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAnswer, f)
		}
		if answers == nil {
			answers = make(map[string]string)
		}
		answers[key] = strings.TrimSpace(value)
	}
	return answers, nil
}

// resolveSelection looks ids up in the registry and refuses sets that
// conflict among themselves or with the installed modules.
func resolveSelection(installed, ids []string) ([]module.Definition, error) {
	mods, err := deps.Registry.Resolve(ids)
	if err != nil {
		return nil, err
	}
	if conflicts := module.ValidateNoConflicts(slices.Concat(installed, ids), deps.Registry.All()); len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}
	return mods, nil
}

// install runs the installer with a progress bar and prints the report.
func install(cmd *cobra.Command, root, name string, mods []module.Definition, dryRun bool) error {
	ids := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	tmplCtx := template.NewContext(
		template.WithProject(name, root),
		template.WithModules(ids),
		template.WithVersion(version.GetVersion()),
	)

	bar := ui.StartProgress(deps.Theme, deps.Headless, cmd.ErrOrStderr(), "Installing", len(mods))
	inst := installer.New(root, deps.Renderer,
		installer.WithForce(getBoolFlag(cmd, "force")),
		installer.WithDryRun(dryRun),
		installer.WithLogger(deps.Logger),
		installer.WithProgress(func(p installer.Progress) { bar.Increment(1, p.Module) }),
	)
	report, err := inst.Install(cmd.Context(), mods, tmplCtx)
	bar.Done()
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, deps.Config.NoColor)
	return nil
}

// projectRoot returns the absolute target directory, creating it when
// create is set.
func projectRoot(args []string, create bool) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project path %q: %w", dir, err)
	}
	if create {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return "", fmt.Errorf("create project directory %q: %w", dir, err)
		}
	}
	return root, nil
}

// splitIDs parses a comma-separated id list, dropping blanks and repeats.
func splitIDs(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		id := strings.TrimSpace(part)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
