package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-arm/arm7tdmi/assembler"
	"github.com/go-arm/arm7tdmi/config"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	require.Equal(t, uint32(0xAAAAAAAA), cfg.Memory.DefaultWord)
	require.Equal(t, assembler.HealAdvanced, cfg.HealMode())
	require.Equal(t, 10, cfg.Assembler.MaxPasses)
	require.Equal(t, 100000, cfg.Harness.DefaultStepCap)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[memory]\ndefault_word = 0\n\n[assembler]\nheal_mode = \"off\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, uint32(0), cfg.Memory.DefaultWord)
	require.Equal(t, assembler.HealOff, cfg.HealMode())
	require.Equal(t, 10, cfg.Assembler.MaxPasses) // omitted key keeps its default
}
