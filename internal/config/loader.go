package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. CCSCAFFOLD_LOG_LEVEL or CCSCAFFOLD_WIZARD_ALLOW_SKIP.
const EnvPrefix = "CCSCAFFOLD"

// localConfigName is looked up in the working directory when no user
// config file exists.
const localConfigName = ".ccscaffold.yaml"

// Loader reads the configuration through a private viper instance.
type Loader struct {
	v    *viper.Viper
	used string
}

// NewLoader returns a Loader with defaults and environment overrides set up.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("registry_dir", d.RegistryDir)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("prompt", d.Prompt)

	v.SetDefault("wizard.allow_skip", d.Wizard.AllowSkip)
	v.SetDefault("wizard.show_progress", d.Wizard.ShowProgress)
	v.SetDefault("wizard.show_conflict_reason", d.Wizard.ShowConflictReason)
	// Registered so CCSCAFFOLD_WIZARD_PRESELECTED is seen by Unmarshal.
	v.SetDefault("wizard.preselected", []string{})
}

// BindFlag lets a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: bind %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads file, or the first existing default location when file is
// empty, and returns the validated configuration. A missing default file is
// not an error; a missing explicit file is.
func (l *Loader) Load(file string) (*Config, error) {
	if file == "" {
		file = findConfigFile()
	} else if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if file != "" {
		l.v.SetConfigFile(file)
		if err := l.v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, file, err)
			}
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		l.used = file
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file read by the last Load, or "".
func (l *Loader) ConfigFileUsed() string {
	return l.used
}

// Load is a convenience wrapper around NewLoader().Load(file).
func Load(file string) (*Config, error) {
	return NewLoader().Load(file)
}

func normalize(cfg *Config) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.Prompt = strings.ToLower(strings.TrimSpace(cfg.Prompt))
	if cfg.RegistryDir != "" {
		cfg.RegistryDir = expandHome(cfg.RegistryDir)
	}
	var ids []string
	for _, id := range cfg.Wizard.Preselected {
		// A comma list given through the environment arrives as one entry.
		for part := range strings.SplitSeq(id, ",") {
			if p := strings.TrimSpace(part); p != "" && !slices.Contains(ids, p) {
				ids = append(ids, p)
			}
		}
	}
	cfg.Wizard.Preselected = ids
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ConfigDir returns the user configuration directory for ccscaffold.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccscaffold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ccscaffold"
	}
	return filepath.Join(home, ".config", "ccscaffold")
}

// ConfigFile returns the path of the user configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func findConfigFile() string {
	for _, candidate := range []string{ConfigFile(), localConfigName} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
