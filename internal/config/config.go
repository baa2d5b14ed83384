package config

// Config represents the complete distill configuration.
// It can be loaded from .distill/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Distill DistillConfig `yaml:"distill" mapstructure:"distill"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Limits  LimitsConfig  `yaml:"limits" mapstructure:"limits"`
}

// PathsConfig defines which files are distilled.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // doublestar globs, empty means every file
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // doublestar globs removed after include
}

// DistillConfig controls what ends up in the distilled view.
type DistillConfig struct {
	Depth             string   `yaml:"depth" mapstructure:"depth"` // public, protected or all
	IncludePrivate    bool     `yaml:"include_private" mapstructure:"include_private"`
	IncludeDocstrings bool     `yaml:"include_docstrings" mapstructure:"include_docstrings"`
	Compact           bool     `yaml:"compact" mapstructure:"compact"`
	Format            string   `yaml:"format" mapstructure:"format"` // distilled, compressed or both
	IncludeNames      []string `yaml:"include_names" mapstructure:"include_names"`
	ExcludeNames      []string `yaml:"exclude_names" mapstructure:"exclude_names"`
	Parser            string   `yaml:"parser" mapstructure:"parser"` // hybrid, grammar or fallback
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Style string `yaml:"style" mapstructure:"style"` // text, json or bundle
}

// LimitsConfig bounds the work done per run and per file.
type LimitsConfig struct {
	Workers         int `yaml:"workers" mapstructure:"workers"` // 0 means one per CPU
	MaxFileSizeKB   int `yaml:"max_file_size_kb" mapstructure:"max_file_size_kb"`
	ParseTimeoutMS  int `yaml:"parse_timeout_ms" mapstructure:"parse_timeout_ms"`
	MaxNestingDepth int `yaml:"max_nesting_depth" mapstructure:"max_nesting_depth"`
	BytesPerToken   int `yaml:"bytes_per_token" mapstructure:"bytes_per_token"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{},
			Exclude: []string{
				"dist/**",
				"build/**",
				"target/**",
				"*.min.js",
			},
		},
		Distill: DistillConfig{
			Depth:        "public",
			Format:       "distilled",
			IncludeNames: []string{},
			ExcludeNames: []string{},
			Parser:       "hybrid",
		},
		Output: OutputConfig{
			Style: "text",
		},
		Limits: LimitsConfig{
			Workers:         0,
			MaxFileSizeKB:   2048,
			ParseTimeoutMS:  5000,
			MaxNestingDepth: 256,
			BytesPerToken:   4,
		},
	}
}
