// Package config loads and validates the project configuration that drives
// a synchronization run. Dynamic on-disk configuration is parsed into a
// strictly-typed Config at this boundary; unknown keys and invalid values
// surface here as a single error, never as deferred runtime failures.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/paths"
	"github.com/arthur-debert/tmplsync/pkg/patterns"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// HooksConfig lists external commands run at materialization lifecycle
// points. Commands are executed by the hook runner, never by the core.
type HooksConfig struct {
	Pre  []string `koanf:"pre"`
	Post []string `koanf:"post"`
}

// Config is the typed project configuration
type Config struct {
	// SourceRef is the upstream reference (commit/tag/branch) to sync from
	SourceRef string `koanf:"source_ref"`

	// SelectedBundles are the bundle ids the project opted into
	SelectedBundles []types.BundleID `koanf:"selected_bundles"`

	// Include are free-form include patterns not tied to any bundle
	Include []string `koanf:"include"`

	// Exclude patterns unconditionally remove paths from the desired set
	Exclude []string `koanf:"exclude"`

	// OnConflict is the default conflict policy for apply
	OnConflict types.ConflictPolicy `koanf:"on_conflict"`

	// Hooks are the pre/post materialization commands
	Hooks HooksConfig `koanf:"hooks"`
}

// knownTopLevelKeys are the only keys .tmplsync.toml may carry
var knownTopLevelKeys = map[string]bool{
	"source_ref":       true,
	"selected_bundles": true,
	"include":          true,
	"exclude":          true,
	"on_conflict":      true,
	"hooks":            true,
}

// Load reads the project configuration from projectRoot, layering the
// project's .tmplsync.toml over the embedded defaults. A missing project
// file is not an error; the defaults alone are a valid configuration.
func Load(projectRoot string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	configPath := paths.ConfigFile(projectRoot)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse %s", configPath)
		}
	}

	return finish(k)
}

// LoadBytes parses a configuration document layered over the embedded
// defaults. Tests and in-memory callers use this instead of Load.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse configuration")
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	logger := logging.GetLogger("config")

	for key := range k.Raw() {
		if !knownTopLevelKeys[key] {
			return nil, errors.Newf(errors.ErrConfigValid, "unknown configuration key %q", key)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal configuration")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("sourceRef", cfg.SourceRef).
		Int("bundles", len(cfg.SelectedBundles)).
		Int("includes", len(cfg.Include)).
		Int("excludes", len(cfg.Exclude)).
		Msg("configuration loaded")

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SourceRef == "" {
		return errors.New(errors.ErrConfigValid, "source_ref must not be empty")
	}
	if _, ok := types.ParseConflictPolicy(string(c.OnConflict)); !ok {
		return errors.Newf(errors.ErrConfigValid,
			"on_conflict must be one of keep-local, take-upstream, fail, interactive; got %q",
			c.OnConflict)
	}
	if err := patterns.ValidateAll(c.Include); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid include pattern")
	}
	if err := patterns.ValidateAll(c.Exclude); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid exclude pattern")
	}
	return nil
}
