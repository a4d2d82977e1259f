package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/cellmark")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("log.level", "loud")
	v.Set("preview.word_wrap", -1)
	v.Set("preview.width_ratio", 2.0)
	v.Set("preview.style_dark", "neon")
	v.Set("preview.style_light", "light")
	v.Set("import.header_row", 0)

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		`log.level "loud" is not a level`,
		"preview.word_wrap must not be negative",
		"preview.width_ratio must be between 0.2 and 1",
		`preview.style_dark "neon" is not a glamour style`,
		"import.header_row must be at least 1",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
	if strings.Contains(msg, "style_light") {
		t.Fatalf("light style should be valid: %q", msg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("table = \"Docs\"\n[log]\nlevel = \"DEBUG\"\n[preview]\ndark_mode = true\n"), 0o600))
	t.Setenv("CELLMARK_PREVIEW_STYLE_DARK", "tokyo-night")
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "Docs", v.GetString("table"))
	assert.Equal(t, "debug", v.GetString("log.level"))
	assert.True(t, v.GetBool("preview.dark_mode"))
	assert.Equal(t, "tokyo-night", v.GetString("preview.style_dark"))
	assert.Equal(t, "light", v.GetString("preview.style_light"))
	assert.Equal(t, filepath.Join(dir, "data", "cellmark", "cellmark.db"), ResolveDBPath(v))
	assert.NoError(t, CheckConfigValidity(v))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, Load(context.Background(), v))
}

func TestRenderDefaultTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(RenderDefaultTOML()), 0o600))

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, 0.6, v.GetFloat64("preview.width_ratio"))
	assert.Equal(t, 1, v.GetInt("import.header_row"))
	assert.Equal(t, "dracula", v.GetString("preview.style_dark"))
}

func TestUpdateTOML(t *testing.T) {
	existing := "table = \"Docs\"\nlegacy = true\n[preview]\ndark_mode = true\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, out, "# OUTDATED: option removed from config schema")
	assert.Contains(t, out, "# legacy = true")
	assert.Contains(t, out, "# Added by config update")
	assert.Contains(t, out, "style_dark = \"dracula\"")
	assert.Equal(t, 1, strings.Count(out, "table = "))
	assert.Equal(t, 1, strings.Count(out, "[preview]"))

	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(out), 0o600))
	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, v.ReadInConfig())
	assert.True(t, v.GetBool("preview.dark_mode"))
	assert.Equal(t, "light", v.GetString("preview.style_light"))
	assert.NotEmpty(t, v.GetString("data_dir"))
	assert.Equal(t, "info", v.GetString("log.level"))

	_, changed = UpdateTOML(RenderDefaultTOML())
	assert.False(t, changed)
}
