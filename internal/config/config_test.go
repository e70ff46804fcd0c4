package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgPath := filepath.Join(t.TempDir(), "farkit.yaml")
	contents := "database: catalog.db\nlog_level: debug\nfiles:\n  - \"*.iff\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(contents), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err, "Load failed")
	assert.Equal(t, "catalog.db", cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"*.iff"}, cfg.Files)

	// Unset keys fall back to defaults.
	assert.Equal(t, "extracted", cfg.OutputDir)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "Load without a config file should use defaults")
	assert.Equal(t, "farkit.db", cfg.Database)
	assert.Equal(t, "extracted", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Files)
}

func TestLoadRejectsEmptyFilePattern(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgPath := filepath.Join(t.TempDir(), "farkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("files:\n  - \"\"\n"), 0644))

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file pattern")
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		entry    string
		want     bool
	}{
		{name: "empty filter matches all", patterns: nil, entry: "anything.iff", want: true},
		{name: "literal match", patterns: []string{"house.iff"}, entry: "house.iff", want: true},
		{name: "glob match", patterns: []string{"*.iff"}, entry: "house.iff", want: true},
		{name: "glob miss", patterns: []string{"*.iff"}, entry: "house.spf", want: false},
		{name: "one of several", patterns: []string{"*.spf", "*.iff"}, entry: "house.iff", want: true},
		{name: "backslash name matches literally", patterns: []string{`Community\Bus.iff`}, entry: `Community\Bus.iff`, want: true},
		{name: "glob does not cross slash", patterns: []string{"*.iff"}, entry: "objects/house.iff", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MatchesAny(tt.patterns, tt.entry))
		})
	}
}
