package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	// Priority: defaults → global file → project file → environment (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	globalDir  string
	configFile string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithGlobalDir overrides the global configuration directory. An empty
// string disables the global layer.
func WithGlobalDir(dir string) LoaderOption {
	return func(l *loader) {
		l.globalDir = dir
	}
}

// WithConfigFile loads an explicit file in place of the project config.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{
		rootDir:   rootDir,
		globalDir: GlobalConfigDir(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DISTILL_*)
// 2. Project config file (.distill/config.yml or .distill/config.yaml)
// 3. Global config file
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DISTILL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if l.globalDir != "" {
		if path := findConfigFile(l.globalDir); path != "" {
			if err := mergeFile(v, path); err != nil {
				return nil, err
			}
		}
	}

	project := l.configFile
	if project == "" {
		project = findConfigFile(ProjectConfigDir(l.rootDir))
	} else if _, err := os.Stat(project); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if project != "" {
		if err := mergeFile(v, project); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns dir/config.yml or dir/config.yaml, or "".
func findConfigFile(dir string) string {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Paths defaults
	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.exclude", defaults.Paths.Exclude)

	// Distill defaults
	v.SetDefault("distill.depth", defaults.Distill.Depth)
	v.SetDefault("distill.include_private", defaults.Distill.IncludePrivate)
	v.SetDefault("distill.include_docstrings", defaults.Distill.IncludeDocstrings)
	v.SetDefault("distill.compact", defaults.Distill.Compact)
	v.SetDefault("distill.format", defaults.Distill.Format)
	v.SetDefault("distill.include_names", defaults.Distill.IncludeNames)
	v.SetDefault("distill.exclude_names", defaults.Distill.ExcludeNames)
	v.SetDefault("distill.parser", defaults.Distill.Parser)

	// Output defaults
	v.SetDefault("output.style", defaults.Output.Style)

	// Limits defaults
	v.SetDefault("limits.workers", defaults.Limits.Workers)
	v.SetDefault("limits.max_file_size_kb", defaults.Limits.MaxFileSizeKB)
	v.SetDefault("limits.parse_timeout_ms", defaults.Limits.ParseTimeoutMS)
	v.SetDefault("limits.max_nesting_depth", defaults.Limits.MaxNestingDepth)
	v.SetDefault("limits.bytes_per_token", defaults.Limits.BytesPerToken)
}

// bindEnvVars binds the scalar keys so DISTILL_* variables override them
// even when no config file mentions the key.
func bindEnvVars(v *viper.Viper) {
	for _, key := range []string{
		"distill.depth",
		"distill.include_private",
		"distill.include_docstrings",
		"distill.compact",
		"distill.format",
		"distill.parser",
		"output.style",
		"limits.workers",
		"limits.max_file_size_kb",
		"limits.parse_timeout_ms",
		"limits.max_nesting_depth",
		"limits.bytes_per_token",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigFromDir loads configuration for a project directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
