package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// Configure Viper search paths. If SetConfigFile was provided upstream,
	// it takes precedence; these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "cellmark"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cellmark"))
		}
		v.AddConfigPath(".")
	}

	// Apply centralized defaults (lowest precedence)
	applyDefaults(v)

	// Read config file if present (overrides defaults). A file that was
	// named explicitly must exist and parse.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && v.ConfigFileUsed() != "" {
			return err
		}
	}

	// Environment variables: CELLMARK_* (highest among these sources)
	v.SetEnvPrefix("cellmark")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize a few dependent values post-merge
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("log.level", strings.ToLower(strings.TrimSpace(v.GetString("log.level"))))
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/cellmark or ~/.local/share/cellmark
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cellmark")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cellmark")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "cellmark", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the base is data_dir/cellmark.db"},
		{Key: "table", Default: "", Comment: "Active table name (exact or fuzzy); empty picks the first table"},

		{Key: "preview.dark_mode", Default: false, Comment: "Start the preview in dark mode"},
		{Key: "preview.style_dark", Default: "dracula", Comment: "Glamour style used in dark mode"},
		{Key: "preview.style_light", Default: "light", Comment: "Glamour style used in light mode"},
		{Key: "preview.word_wrap", Default: 0, Comment: "Word-wrap column for rendered markdown; 0 follows the terminal"},
		{Key: "preview.width_ratio", Default: 0.6, Comment: "Overlay width as a share of the terminal (0.2-1)"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.file", Default: "", Comment: "Log file; empty logs to stderr (the TUI logs to data_dir/cellmark.log)"},

		{Key: "import.header_row", Default: 1, Comment: "1-based row holding field names in imported sheets"},
	}
}

// ResolveDBPath returns the sqlite base path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	return filepath.Join(ResolveDataDir(v), "cellmark.db")
}

// ResolveDataDir returns data_dir with ~ expanded.
func ResolveDataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}
