package defs

// Directory and file names ccscaffold writes into a project.
const (
	// ClaudeDir holds Claude Code project configuration.
	ClaudeDir = ".claude"

	// SettingsJSON is the Claude Code project settings file, under ClaudeDir.
	SettingsJSON = "settings.json"

	// MCPJSON is the MCP server configuration file at the project root.
	MCPJSON = ".mcp.json"

	// ManifestYAML records the modules installed by ccscaffold, under ClaudeDir.
	ManifestYAML = "ccscaffold.yaml"

	// ClaudeMD is the project memory file.
	ClaudeMD = "CLAUDE.md"

	// PackageJSON is the npm manifest receiving scripts and devDependencies.
	PackageJSON = "package.json"

	// EditorConfig is the editorconfig file at the project root.
	EditorConfig = ".editorconfig"

	// WorkflowsDir holds GitHub Actions workflows.
	WorkflowsDir = ".github/workflows"
)
