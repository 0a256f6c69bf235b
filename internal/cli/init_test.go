package cli

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/modu-ai/ccscaffold/internal/installer"
	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/prompt"
	"github.com/modu-ai/ccscaffold/internal/ui"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func installedModules(t *testing.T, root string) []string {
	t.Helper()
	m, err := installer.ReadManifest(root)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	return m.Modules
}

func TestInitCmd_Flags(t *testing.T) {
	for _, name := range []string{"name", "modules", "non-interactive", "dry-run", "force"} {
		if initCmd.Flags().Lookup(name) == nil {
			t.Errorf("init command should have --%s flag", name)
		}
	}
}

func TestInit_Modules(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my-app")

	out, errOut, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc, prettier", "--non-interactive")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if got := readFile(t, filepath.Join(root, "CLAUDE.md")); got != "# my-app\n" {
		t.Errorf("CLAUDE.md = %q", got)
	}
	if got := readFile(t, filepath.Join(root, ".prettierrc.json")); got != "{}\n" {
		t.Errorf(".prettierrc.json = %q", got)
	}
	if got, want := installedModules(t, root), []string{"project-doc", "prettier"}; !slices.Equal(got, want) {
		t.Errorf("manifest modules = %v, want %v", got, want)
	}
	if !strings.Contains(out, "CLAUDE.md") {
		t.Errorf("report does not list CLAUDE.md:\n%s", out)
	}
	if want := "[2/2] prettier"; !strings.Contains(errOut, want) {
		t.Errorf("progress output %q lacks %q", errOut, want)
	}
}

func TestInit_Name(t *testing.T) {
	root := t.TempDir()
	if _, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc", "--name", "  demo "); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := readFile(t, filepath.Join(root, "CLAUDE.md")); got != "# demo\n" {
		t.Errorf("CLAUDE.md = %q", got)
	}

	_, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc", "--name", "a/b")
	if err == nil || !strings.Contains(err.Error(), "invalid --name") {
		t.Errorf("err = %v, want invalid --name", err)
	}
}

func TestInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "conflicting_modules",
			args:    []string{"--modules", "prettier,biome"},
			wantErr: ErrConflict,
			wantMsg: "prettier conflicts with biome",
		},
		{
			name:    "non_interactive_without_modules",
			args:    []string{"--non-interactive"},
			wantErr: ErrModulesRequired,
		},
		{
			name:    "unknown_module",
			args:    []string{"--modules", "nope"},
			wantMsg: "nope",
		},
		{
			name:    "conflicting_preselect",
			args:    []string{"--preselect", "prettier,biome"},
			wantErr: ErrConflict,
			wantMsg: "preselected modules",
		},
		{
			name:    "unknown_preselect",
			args:    []string{"--preselect", "nope"},
			wantErr: module.ErrUnknownModule,
			wantMsg: "nope",
		},
		{
			name:    "malformed_answer",
			args:    []string{"--answer", "categories"},
			wantErr: ErrInvalidAnswer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			_, _, err := runCLI(t, testDeps(t, nil), append([]string{"init", root}, tt.args...)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %q, want it to mention %q", err, tt.wantMsg)
			}
			entries, _ := os.ReadDir(root)
			if len(entries) != 0 {
				t.Errorf("failed init wrote %d entries", len(entries))
			}
		})
	}
}

func TestInit_Wizard(t *testing.T) {
	root := t.TempDir()
	_, _, err := runCLI(t, testDeps(t, nil), "init", root,
		"--answer", "project_name=demo",
		"--answer", "categories=doc,code-style",
		"--answer", "modules_doc=project-doc",
		"--answer", "modules_code-style=biome",
	)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := readFile(t, filepath.Join(root, "CLAUDE.md")); got != "# demo\n" {
		t.Errorf("CLAUDE.md = %q", got)
	}
	if got, want := installedModules(t, root), []string{"project-doc", "biome"}; !slices.Equal(got, want) {
		t.Errorf("manifest modules = %v, want %v", got, want)
	}
}

func TestInit_WizardPreselect(t *testing.T) {
	root := t.TempDir()
	_, _, err := runCLI(t, testDeps(t, nil), "init", root, "--name", "demo", "--preselect", "prettier, code-reviewer")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	got := installedModules(t, root)
	slices.Sort(got)
	if want := []string{"code-reviewer", "prettier"}; !slices.Equal(got, want) {
		t.Errorf("manifest modules = %v, want %v", got, want)
	}
}

// TestInit_HeadlessFromConfig runs init without a terminal, with the
// dependencies built from a config file, the bundled registry and the real
// prompt selection.
func TestInit_HeadlessFromConfig(t *testing.T) {
	dir := isolateConfig(t)
	config := `prompt: headless
no_color: true
answers:
  project_name: demo
wizard:
  preselected: [claude-md-minimal, code-reviewer]
`
	if err := os.WriteFile(filepath.Join(dir, ".ccscaffold.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()

	if _, _, err := runCLI(t, nil, "init", root); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := readFile(t, filepath.Join(root, "CLAUDE.md")); !strings.HasPrefix(got, "# demo\n") {
		t.Errorf("CLAUDE.md = %q", got)
	}
	got := installedModules(t, root)
	slices.Sort(got)
	if want := []string{"claude-md-minimal", "code-reviewer"}; !slices.Equal(got, want) {
		t.Errorf("manifest modules = %v, want %v", got, want)
	}

	// A flag answer overrides the config file.
	other := t.TempDir()
	if _, _, err := runCLI(t, nil, "init", other, "--answer", "modules_agent=debugger"); err != nil {
		t.Fatalf("init with --answer: %v", err)
	}
	got = installedModules(t, other)
	slices.Sort(got)
	if want := []string{"claude-md-minimal", "debugger"}; !slices.Equal(got, want) {
		t.Errorf("manifest modules = %v, want %v", got, want)
	}
}

func TestInit_WizardRespectsInstalled(t *testing.T) {
	root := t.TempDir()
	if _, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "biome"); err != nil {
		t.Fatalf("first init: %v", err)
	}

	_, _, err := runCLI(t, testDeps(t, nil), "init", root,
		"--answer", "categories=code-style",
		"--answer", "modules_code-style=prettier",
	)
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("err = %v, want prettier refused as unavailable", err)
	}
}

func TestHeadlessAnswers(t *testing.T) {
	configured := map[string]string{"project_name": "from-config", "categories": "doc"}
	got, err := headlessAnswers(configured, []string{"project_name = demo", "modules_doc=project-doc,"})
	if err != nil {
		t.Fatalf("headlessAnswers: %v", err)
	}
	want := map[string]string{"project_name": "demo", "categories": "doc", "modules_doc": "project-doc,"}
	if !maps.Equal(got, want) {
		t.Errorf("answers = %v, want %v", got, want)
	}
	if configured["project_name"] != "from-config" {
		t.Error("configured answers were modified")
	}

	for _, bad := range []string{"categories", "=doc"} {
		if _, err := headlessAnswers(nil, []string{bad}); !errors.Is(err, ErrInvalidAnswer) {
			t.Errorf("headlessAnswers(%q) = %v, want ErrInvalidAnswer", bad, err)
		}
	}
	if got, err := headlessAnswers(nil, nil); err != nil || got != nil {
		t.Errorf("no answers = %v, %v", got, err)
	}
}

func TestInit_WizardWithoutAnswersFails(t *testing.T) {
	root := t.TempDir()
	_, _, err := runCLI(t, testDeps(t, nil), "init", root)
	if !errors.Is(err, ui.ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}

// cancellingAsker aborts on the first question.
type cancellingAsker struct{}

func (cancellingAsker) Select(context.Context, prompt.SelectSpec) (string, error) {
	return "", prompt.ErrCancelled
}

func (cancellingAsker) Checkbox(context.Context, prompt.CheckboxSpec) ([]string, error) {
	return nil, prompt.ErrCancelled
}

func (cancellingAsker) Confirm(context.Context, prompt.ConfirmSpec) (bool, error) {
	return false, prompt.ErrCancelled
}

func (cancellingAsker) Input(context.Context, prompt.InputSpec) (string, error) {
	return "", prompt.ErrCancelled
}

func TestInit_Cancelled(t *testing.T) {
	root := t.TempDir()
	out, _, err := runCLI(t, testDeps(t, cancellingAsker{}), "init", root)
	if err != nil {
		t.Fatalf("cancel should not be an error: %v", err)
	}
	if !strings.Contains(out, "Setup cancelled") {
		t.Errorf("output = %q", out)
	}
	if entries, _ := os.ReadDir(root); len(entries) != 0 {
		t.Errorf("cancelled init wrote %d entries", len(entries))
	}
}

func TestInit_DryRun(t *testing.T) {
	root := t.TempDir()
	out, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc", "--name", "demo", "--dry-run")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if entries, _ := os.ReadDir(root); len(entries) != 0 {
		t.Errorf("dry run wrote %d entries", len(entries))
	}
	for _, want := range []string{"+++ b/CLAUDE.md", "+# demo", "+++ b/.claude/ccscaffold.yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("dry run output lacks %q:\n%s", want, out)
		}
	}
}

func TestInit_ExistingFileKeptUnlessForce(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "CLAUDE.md")
	if err := os.WriteFile(path, []byte("mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc", "--name", "demo"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := readFile(t, path); got != "mine\n" {
		t.Errorf("existing file overwritten without --force: %q", got)
	}

	if _, _, err := runCLI(t, testDeps(t, nil), "init", root, "--modules", "project-doc", "--name", "demo", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if got := readFile(t, path); got != "# demo\n" {
		t.Errorf("--force did not overwrite: %q", got)
	}
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs(" a, b,,a ,c ")
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("splitIDs = %v, want %v", got, want)
	}
	if splitIDs("") != nil {
		t.Error("empty input should give no ids")
	}
}
