// Package config loads the archviz.toml configuration file.
//
// All settings have defaults; the file is optional and CLI flags override
// file values. Unknown keys are rejected so typos surface instead of being
// silently ignored.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/errors"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "archviz.toml"

// Config holds the documentation tooling settings.
type Config struct {
	// OutputDir is where rendered diagrams are written.
	OutputDir string `toml:"output_dir"`

	// Format is the output image format: png, jpg, svg, or dot.
	Format string `toml:"format"`

	// PreviewAddr is the listen address for the preview server.
	PreviewAddr string `toml:"preview_addr"`

	// Topologies are glob patterns for YAML topology files rendered in
	// addition to the built-in diagrams.
	Topologies []string `toml:"topologies"`

	// Disabled lists file stems of diagrams to skip.
	Disabled []string `toml:"disabled"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		OutputDir:   "diagrams",
		Format:      diagram.FormatPNG,
		PreviewAddr: "localhost:8173",
	}
}

// Load reads configuration from path. An empty path means
// [DefaultFileName] in the working directory; a missing default file is
// not an error and yields [Default].
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output_dir must not be empty")
	}
	if err := diagram.ValidateFormat(c.Format); err != nil {
		return err
	}
	for _, stem := range c.Disabled {
		if err := diagram.ValidateFileName(stem); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "disabled entry %q", stem)
		}
	}
	return nil
}

// IsDisabled reports whether the diagram with the given file stem is
// excluded from batches.
func (c Config) IsDisabled(stem string) bool {
	for _, d := range c.Disabled {
		if d == stem {
			return true
		}
	}
	return false
}

// WatchPaths returns the filesystem paths the preview server should watch:
// the config file itself (if present) and the directories containing
// topology files.
func (c Config) WatchPaths(configPath string) []string {
	seen := map[string]bool{}
	var paths []string

	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	if configPath == "" {
		configPath = DefaultFileName
	}
	if _, err := os.Stat(configPath); err == nil {
		add(filepath.Dir(configPath))
	}
	for _, pattern := range c.Topologies {
		add(filepath.Dir(pattern))
	}
	return paths
}
