// Package config provides configuration loading for distill.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (DISTILL_*)
//  2. Project config (.distill/config.yml)
//  3. Global config ($XDG_CONFIG_HOME/distill/config.yml)
//  4. Built-in defaults
//
// CLI flags are applied on top by the commands themselves.
//
// Environment Variable Convention:
//   - Prefix: DISTILL_
//   - Nested fields use underscores (DISTILL_LIMITS_WORKERS)
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the global configuration directory.
const AppName = "distill"

// ProjectDirName is the per-project configuration directory.
const ProjectDirName = ".distill"

// GlobalConfigDir returns the machine-wide configuration directory.
func GlobalConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ProjectConfigDir returns the configuration directory of a project root.
func ProjectConfigDir(rootDir string) string {
	return filepath.Join(rootDir, ProjectDirName)
}
