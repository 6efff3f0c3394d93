// Package config holds the tunables the assembler and interpreter leave
// implementation-defined: the memory fill value, the default healing
// mode, the resolver's pass cap, and the `run` command's fallback step budget.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/go-arm/arm7tdmi/assembler"
)

// Config is the full set of tunables, loaded from TOML with defaults
// filling in anything the file omits.
type Config struct {
	Memory struct {
		DefaultWord uint32 `toml:"default_word"`
	} `toml:"memory"`

	Assembler struct {
		HealMode  string `toml:"heal_mode"` // "advanced", "simple", "off"
		MaxPasses int    `toml:"max_passes"`
	} `toml:"assembler"`

	Harness struct {
		DefaultStepCap int `toml:"default_step_cap"`
	} `toml:"harness"`
}

// DefaultConfig returns the tunables this implementation uses absent a
// config file: fill 0xAAAAAAAA per SPEC_FULL.md section 6, Advanced
// healing, a ten-pass resolver cap, and a 100000-step `run` fallback.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Memory.DefaultWord = 0xAAAAAAAA
	cfg.Assembler.HealMode = "advanced"
	cfg.Assembler.MaxPasses = 10
	cfg.Harness.DefaultStepCap = 100000
	return cfg
}

// HealMode maps the configured heal-mode name to an assembler.HealMode,
// defaulting to Advanced for an empty or unrecognised value.
func (c *Config) HealMode() assembler.HealMode {
	switch strings.ToLower(c.Assembler.HealMode) {
	case "off":
		return assembler.HealOff
	case "simple":
		return assembler.HealSimple
	default:
		return assembler.HealAdvanced
	}
}

// ConfigPath returns the platform-specific config file location, the
// same convention the teacher's emulator uses for its own settings file.
func ConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		dir := os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(dir, "arm7tdmi", "config.toml")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		return filepath.Join(home, ".config", "arm7tdmi", "config.toml")
	default:
		return "config.toml"
	}
}

// Load reads the config file at ConfigPath, falling back to defaults if
// it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads and decodes the TOML file at path over a default
// configuration, so an omitted section keeps its default value.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
