// Package config handles scratch.toml engine configuration, adapted from
// the reference's maggie.toml project manifest (same directory-discovery
// shape, a different document schema: engine tunables instead of project
// metadata and dependencies, since this module has no package manager).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is a scratch.toml document's decoded form: every tunable §9
// "Engine defaults" lists, pre-populated with those defaults so a document
// that sets none of them still produces a usable engine.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Stage  StageConfig  `toml:"stage"`
	Clones ClonesConfig `toml:"clones"`

	// Dir is the directory containing the scratch.toml file (set at load time).
	Dir string `toml:"-"`
}

// EngineConfig configures the scheduler's pacing.
type EngineConfig struct {
	FPS   float64 `toml:"fps"`
	Turbo bool    `toml:"turbo"`
}

// StageConfig configures the stage's dimensions and edge behavior.
type StageConfig struct {
	Width         int  `toml:"width"`
	Height        int  `toml:"height"`
	SpriteFencing bool `toml:"sprite-fencing"`
}

// ClonesConfig configures the clone-count cap (§3 "Lifecycles").
type ClonesConfig struct {
	Limit int `toml:"limit"`
}

// Default returns the reference engine's built-in defaults (§9): 30 FPS,
// turbo off, 480x360 stage, sprite fencing on, clone limit 300.
func Default() Config {
	return Config{
		Engine: EngineConfig{FPS: 30},
		Stage:  StageConfig{Width: 480, Height: 360, SpriteFencing: true},
		Clones: ClonesConfig{Limit: 300},
	}
}

// Load parses a scratch.toml file from the given directory, overlaying it
// onto Default() so an omitted table or field keeps its default value.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "scratch.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return &c, nil
}

// FindAndLoad walks up from startDir looking for a scratch.toml file, then
// loads and returns it. Returns nil, nil if none is found anywhere above
// startDir, in which case a caller should fall back to Default().
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "scratch.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
