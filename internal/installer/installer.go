package installer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/ccscaffold/internal/defs"
	"github.com/modu-ai/ccscaffold/internal/merge"
	"github.com/modu-ai/ccscaffold/internal/module"
	"github.com/modu-ai/ccscaffold/internal/template"
)

// Action describes what an install did, or would do, to one file.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
	ActionSkip      Action = "skip"
)

// FileChange is one entry of a Report.
type FileChange struct {
	Path    string
	Action  Action
	Modules []string
	// Diff is the unified diff of the change, filled in dry runs only.
	Diff string
}

// Report summarizes an install.
type Report struct {
	Root     string
	DryRun   bool
	Modules  []string
	Changes  []FileChange
	Warnings []string
}

// Count returns the number of changes with action a.
func (r *Report) Count(a Action) int {
	n := 0
	for _, c := range r.Changes {
		if c.Action == a {
			n++
		}
	}
	return n
}

// Progress is passed to the progress callback after each module.
type Progress struct {
	Module string
	Done   int
	Total  int
}

// Installer writes modules into one project root.
type Installer struct {
	root     string
	renderer template.Renderer
	force    bool
	dryRun   bool
	logger   *slog.Logger
	progress func(Progress)
}

// Option configures an Installer.
type Option func(*Installer)

// WithForce overwrites existing asset files and lets module values win over
// existing values in merged files.
func WithForce(force bool) Option {
	return func(i *Installer) { i.force = force }
}

// WithDryRun computes every change and its diff without writing.
func WithDryRun(dryRun bool) Option {
	return func(i *Installer) { i.dryRun = dryRun }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// WithProgress registers a callback run after each module is planned.
func WithProgress(fn func(Progress)) Option {
	return func(i *Installer) { i.progress = fn }
}

// New returns an Installer for the project at root.
func New(root string, renderer template.Renderer, opts ...Option) *Installer {
	i := &Installer{
		root:     filepath.Clean(root),
		renderer: renderer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install plans every module in order, then writes the result. The context
// is checked between modules; an error before the write phase leaves the
// project untouched.
func (i *Installer) Install(ctx context.Context, modules []module.Definition, tmplCtx *template.Context) (*Report, error) {
	st := newStage(i.root)
	report := &Report{Root: i.root, DryRun: i.dryRun}
	skipped := make(map[string][]string)

	for n, m := range modules {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("installer: %w", err)
		}
		i.logger.Debug("planning module", "module", m.ID, "category", m.Category)

		warnings, skips, err := i.plan(st, m, tmplCtx)
		if err != nil {
			return nil, fmt.Errorf("installer: module %s: %w", m.ID, err)
		}
		report.Warnings = append(report.Warnings, warnings...)
		for _, p := range skips {
			skipped[p] = append(skipped[p], m.ID)
		}
		report.Modules = append(report.Modules, m.ID)

		if i.progress != nil {
			i.progress(Progress{Module: m.ID, Done: n + 1, Total: len(modules)})
		}
	}

	if err := i.planManifest(st, report.Modules, tmplCtx); err != nil {
		return nil, err
	}

	for _, rel := range st.paths() {
		f := st.files[rel]
		c := FileChange{Path: rel, Modules: f.modules}
		switch {
		case f.before == nil:
			c.Action = ActionCreate
		case st.changed(rel):
			c.Action = ActionUpdate
		default:
			c.Action = ActionUnchanged
		}
		if i.dryRun && c.Action != ActionUnchanged {
			c.Diff = merge.UnifiedDiff(rel, f.before, f.after)
		}
		report.Changes = append(report.Changes, c)
	}
	for _, rel := range slices.Sorted(maps.Keys(skipped)) {
		if _, ok := st.files[rel]; ok {
			continue
		}
		report.Changes = append(report.Changes, FileChange{Path: rel, Action: ActionSkip, Modules: skipped[rel]})
	}

	if i.dryRun {
		return report, nil
	}
	for _, rel := range st.paths() {
		if !st.changed(rel) {
			continue
		}
		if err := st.write(rel); err != nil {
			return report, err
		}
		i.logger.Debug("wrote file", "path", rel)
	}
	return report, nil
}

// plan stages everything module m contributes. It returns warnings and the
// asset paths left alone because they already exist.
func (i *Installer) plan(st *stage, m module.Definition, tmplCtx *template.Context) ([]string, []string, error) {
	var warnings, skipped []string

	for _, f := range m.Files {
		if err := validatePath(i.root, f.Path); err != nil {
			return nil, nil, err
		}
		rel := path.Clean(f.Path)
		if st.onDisk(rel) && !i.force {
			i.logger.Info("keeping existing file", "path", rel, "module", m.ID)
			skipped = append(skipped, rel)
			continue
		}
		if prev, ok := st.files[rel]; ok && len(prev.modules) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: also written by %s, last module wins", rel, prev.modules[len(prev.modules)-1]))
		}

		content := []byte(f.Content)
		if f.Template {
			rendered, err := i.renderer.Render(m.ID+":"+rel, f.Content, tmplCtx)
			if err != nil {
				return nil, nil, err
			}
			content = rendered
		}
		var mode fs.FileMode
		if f.Executable {
			mode = 0o755
		}
		if err := st.put(rel, content, mode, m.ID); err != nil {
			return nil, nil, err
		}
	}

	if len(m.MCPServers) > 0 {
		w, err := i.mergeJSON(st, defs.MCPJSON, map[string]any{"mcpServers": m.MCPServers}, m.ID, true)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}

	if len(m.Hooks) > 0 {
		settings := path.Join(defs.ClaudeDir, defs.SettingsJSON)
		w, err := i.mergeJSON(st, settings, map[string]any{"hooks": hookEntries(m.Hooks)}, m.ID, true)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}

	if len(m.Scripts) > 0 || len(m.DevDependencies) > 0 {
		src := map[string]any{}
		if len(m.Scripts) > 0 {
			src["scripts"] = m.Scripts
		}
		if len(m.DevDependencies) > 0 {
			src["devDependencies"] = m.DevDependencies
		}
		w, err := i.mergeJSON(st, defs.PackageJSON, src, m.ID, false)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
	}

	if len(m.EditorConfig) > 0 {
		current, _, err := st.current(defs.EditorConfig)
		if err != nil {
			return nil, nil, err
		}
		out, conflicts := merge.EditorConfig(current, "*", m.EditorConfig, i.force)
		warnings = append(warnings, conflictWarnings(defs.EditorConfig, m.ID, conflicts, i.force)...)
		if err := st.put(defs.EditorConfig, out, 0, m.ID); err != nil {
			return nil, nil, err
		}
	}

	if m.Workflow != nil {
		rel := path.Join(defs.WorkflowsDir, m.ID+".yml")
		if st.onDisk(rel) && !i.force {
			skipped = append(skipped, rel)
		} else {
			data, err := yaml.Marshal(m.Workflow)
			if err != nil {
				return nil, nil, fmt.Errorf("encode workflow: %w", err)
			}
			if err := st.put(rel, data, 0, m.ID); err != nil {
				return nil, nil, err
			}
		}
	}

	return warnings, skipped, nil
}

// mergeJSON merges src into the JSON object file rel. When the file does not
// exist it is created if create is set, otherwise a warning is returned.
func (i *Installer) mergeJSON(st *stage, rel string, src map[string]any, moduleID string, create bool) ([]string, error) {
	current, exists, err := st.current(rel)
	if err != nil {
		return nil, err
	}
	if !exists && !create {
		return []string{fmt.Sprintf("%s: not found, %s entries were not added", rel, moduleID)}, nil
	}

	dst, err := merge.DecodeObject(rel, current)
	if err != nil {
		return nil, err
	}
	obj, err := merge.ToObject(src)
	if err != nil {
		return nil, fmt.Errorf("encode %s entries: %w", rel, err)
	}
	conflicts := merge.Objects(dst, obj, i.force)

	out, err := merge.EncodeObject(dst)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", rel, err)
	}
	if err := st.put(rel, out, 0, moduleID); err != nil {
		return nil, err
	}
	return conflictWarnings(rel, moduleID, conflicts, i.force), nil
}

func conflictWarnings(rel, moduleID string, conflicts []string, force bool) []string {
	if len(conflicts) == 0 {
		return nil
	}
	verb := "kept existing"
	if force {
		verb = "overwrote"
	}
	return []string{fmt.Sprintf("%s: %s %s (module %s)", rel, verb, merge.FormatConflicts(conflicts), moduleID)}
}

// hookEntries groups hooks by event into the settings.json shape.
func hookEntries(hooks []module.Hook) map[string][]hookMatcher {
	out := make(map[string][]hookMatcher)
	for _, h := range hooks {
		out[h.Event] = append(out[h.Event], hookMatcher{
			Matcher: h.Matcher,
			Hooks:   []hookCommand{{Type: "command", Command: h.Command, Timeout: h.Timeout}},
		})
	}
	return out
}

type hookMatcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []hookCommand `json:"hooks"`
}

type hookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

func (i *Installer) planManifest(st *stage, ids []string, tmplCtx *template.Context) error {
	current, _, err := st.current(ManifestPath)
	if err != nil {
		return err
	}
	m := &Manifest{}
	if len(current) > 0 {
		if m, err = decodeManifest(current); err != nil {
			return err
		}
	}
	m.Add(ids...)
	if tmplCtx != nil && tmplCtx.Version != "" {
		m.Version = tmplCtx.Version
	}
	data, err := m.encode()
	if err != nil {
		return err
	}
	return st.put(ManifestPath, data, 0, "")
}
