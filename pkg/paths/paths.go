// Package paths provides centralized path handling for tmplsync.
// It implements XDG Base Directory specification compliance for
// tool-owned files and defines the project-relative layout.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvProjectRoot overrides the project root discovery
	EnvProjectRoot = "TMPLSYNC_PROJECT_ROOT"

	// EnvTemplateRoot points at a local template checkout
	EnvTemplateRoot = "TMPLSYNC_TEMPLATE_ROOT"
)

// Project-relative layout.
// IMPORTANT: These constants define tmplsync's on-disk contract with synced
// projects and are NOT user-configurable. The state file sits in the
// project's own version control and must stay stable across installations.
const (
	// ConfigFileName is the project configuration file
	ConfigFileName = ".tmplsync.toml"

	// BundlesFileName is the bundle definition file at the template origin
	BundlesFileName = "bundles.yaml"

	// StateDirName is the project-relative directory for tmplsync state
	StateDirName = ".tmplsync"

	// StateFileName is the persisted sync-state file inside StateDirName
	StateFileName = "state.yaml"

	// LockFileName is the advisory run lock inside StateDirName
	LockFileName = "lock"
)

// ConfigFile returns the project configuration path
func ConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigFileName)
}

// StateDir returns the project-relative tmplsync state directory
func StateDir(projectRoot string) string {
	return filepath.Join(projectRoot, StateDirName)
}

// StateFile returns the persisted sync-state path
func StateFile(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), StateFileName)
}

// LockFile returns the advisory run lock path
func LockFile(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), LockFileName)
}

// LogDir returns the XDG state directory for tmplsync logs
func LogDir() string {
	return filepath.Join(xdg.StateHome, "tmplsync")
}
