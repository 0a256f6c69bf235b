// Package module describes installable scaffolding modules, loads them from
// YAML registries and resolves mutual exclusivity between them.
package module

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors for module operations.
var (
	// ErrUnknownModule indicates a requested module id is not in the registry.
	ErrUnknownModule = errors.New("module: unknown module")

	// ErrDuplicateModule indicates two definitions share an id within one registry.
	ErrDuplicateModule = errors.New("module: duplicate module id")

	// ErrInvalidRegistry indicates a registry file failed schema or domain validation.
	ErrInvalidRegistry = errors.New("module: invalid registry")
)

// Category groups modules in the wizard and in `list` output.
type Category string

const (
	CategoryAgent     Category = "agent"
	CategorySkill     Category = "skill"
	CategoryCommand   Category = "command"
	CategoryDoc       Category = "doc"
	CategoryMCP       Category = "mcp"
	CategoryHook      Category = "hook"
	CategoryCodeStyle Category = "code-style"
	CategoryCI        Category = "ci"
)

// AllCategories lists every category in presentation order.
var AllCategories = []Category{
	CategoryAgent,
	CategorySkill,
	CategoryCommand,
	CategoryDoc,
	CategoryMCP,
	CategoryHook,
	CategoryCodeStyle,
	CategoryCI,
}

var categoryLabels = map[Category]string{
	CategoryAgent:     "Agents",
	CategorySkill:     "Skills",
	CategoryCommand:   "Slash commands",
	CategoryDoc:       "Project docs",
	CategoryMCP:       "MCP servers",
	CategoryHook:      "Hooks",
	CategoryCodeStyle: "Code style",
	CategoryCI:        "CI workflows",
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of AllCategories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// File is an asset written into the target project.
type File struct {
	Path       string `yaml:"path"                 json:"path"                 jsonschema:"minLength=1"`
	Content    string `yaml:"content,omitempty"    json:"content,omitempty"`
	Template   bool   `yaml:"template,omitempty"   json:"template,omitempty"`
	Executable bool   `yaml:"executable,omitempty" json:"executable,omitempty"`
}

// MCPServer is one entry of the "mcpServers" object in .mcp.json.
type MCPServer struct {
	Type    string            `yaml:"type,omitempty"    json:"type,omitempty"    jsonschema:"enum=stdio,enum=http,enum=sse"`
	Command string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"    json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"     json:"env,omitempty"`
	URL     string            `yaml:"url,omitempty"     json:"url,omitempty"`
}

// Hook registers a command for a Claude Code hook event.
type Hook struct {
	Event   string `yaml:"event"             json:"event"             jsonschema:"enum=PreToolUse,enum=PostToolUse,enum=UserPromptSubmit,enum=Notification,enum=Stop,enum=SubagentStop,enum=PreCompact,enum=SessionStart,enum=SessionEnd"`
	Matcher string `yaml:"matcher,omitempty" json:"matcher,omitempty"`
	Command string `yaml:"command"           json:"command"           jsonschema:"minLength=1"`
	Timeout int    `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"minimum=1"`
}

// Workflow is a GitHub Actions workflow written to .github/workflows/<id>.yml.
type Workflow struct {
	Name string         `yaml:"name"           json:"name"`
	On   any            `yaml:"on"             json:"on"`
	Env  map[string]any `yaml:"env,omitempty"  json:"env,omitempty"`
	Jobs map[string]any `yaml:"jobs"           json:"jobs"`
}

// Definition is a module as declared in a registry file.
type Definition struct {
	ID              string               `yaml:"id"                        json:"id"                        jsonschema:"pattern=^[a-z0-9][a-z0-9-]*$"`
	Name            string               `yaml:"name"                      json:"name"                      jsonschema:"minLength=1"`
	Category        Category             `yaml:"category"                  json:"category"                  jsonschema:"enum=agent,enum=skill,enum=command,enum=doc,enum=mcp,enum=hook,enum=code-style,enum=ci"`
	Description     string               `yaml:"description,omitempty"     json:"description,omitempty"`
	AlternativeTo   []string             `yaml:"alternativeTo,omitempty"   json:"alternativeTo,omitempty"`
	Files           []File               `yaml:"files,omitempty"           json:"files,omitempty"`
	MCPServers      map[string]MCPServer `yaml:"mcpServers,omitempty"      json:"mcpServers,omitempty"`
	Hooks           []Hook               `yaml:"hooks,omitempty"           json:"hooks,omitempty"`
	Scripts         map[string]string    `yaml:"scripts,omitempty"         json:"scripts,omitempty"`
	DevDependencies map[string]string    `yaml:"devDependencies,omitempty" json:"devDependencies,omitempty"`
	EditorConfig    map[string]string    `yaml:"editorconfig,omitempty"    json:"editorconfig,omitempty"`
	Workflow        *Workflow            `yaml:"workflow,omitempty"        json:"workflow,omitempty"`
}

// DisplayName returns Name, or ID when the definition has no name.
func (d Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// validate applies the rules a JSON schema cannot express.
func (d Definition) validate() []string {
	var problems []string
	for _, alt := range d.AlternativeTo {
		if alt == d.ID {
			problems = append(problems, fmt.Sprintf("%s: lists itself in alternativeTo", d.ID))
		}
	}
	seen := make(map[string]bool, len(d.Files))
	for _, f := range d.Files {
		p := strings.TrimSpace(f.Path)
		if strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
			problems = append(problems, fmt.Sprintf("%s: file path %q must be relative to the project root", d.ID, f.Path))
		}
		if seen[p] {
			problems = append(problems, fmt.Sprintf("%s: file path %q declared twice", d.ID, f.Path))
		}
		seen[p] = true
	}
	for _, name := range slices.Sorted(maps.Keys(d.MCPServers)) {
		if srv := d.MCPServers[name]; srv.Command == "" && srv.URL == "" {
			problems = append(problems, fmt.Sprintf("%s: mcp server %q needs a command or a url", d.ID, name))
		}
	}
	return problems
}
