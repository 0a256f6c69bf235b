package config

// Prompt modes select the Asker implementation used by interactive commands.
const (
	PromptAuto     = "auto"     // tui on a terminal, headless otherwise
	PromptTUI      = "tui"      // huh forms
	PromptLine     = "line"     // readline, for dumb terminals
	PromptHeadless = "headless" // answer every question with its default
)

// Config is the root configuration.
type Config struct {
	// RegistryDir points at a directory of extra registry YAML files merged
	// over the bundled registry.
	RegistryDir string       `mapstructure:"registry_dir" yaml:"registry_dir"`
	NoColor     bool         `mapstructure:"no_color"     yaml:"no_color"`
	LogLevel    string       `mapstructure:"log_level"    yaml:"log_level"`
	LogFormat   string       `mapstructure:"log_format"   yaml:"log_format"`
	Prompt      string       `mapstructure:"prompt"       yaml:"prompt"`
	Wizard      WizardConfig `mapstructure:"wizard"       yaml:"wizard"`

	// Answers pre-answer wizard questions by step id when prompts run
	// headless, e.g. categories: "agent,code-style". Keys are lower case.
	Answers map[string]string `mapstructure:"answers" yaml:"answers"`
}

// WizardConfig tunes the scaffolding wizard.
type WizardConfig struct {
	AllowSkip          bool `mapstructure:"allow_skip"           yaml:"allow_skip"`
	ShowProgress       bool `mapstructure:"show_progress"        yaml:"show_progress"`
	ShowConflictReason bool `mapstructure:"show_conflict_reason" yaml:"show_conflict_reason"`

	// Preselected module ids are checked when the wizard opens; their
	// categories are checked too.
	Preselected []string `mapstructure:"preselected" yaml:"preselected"`
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "text",
		Prompt:    PromptAuto,
		Wizard: WizardConfig{
			AllowSkip:          true,
			ShowProgress:       true,
			ShowConflictReason: false,
		},
	}
}
