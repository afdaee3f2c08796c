package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "syndial.toml"

const dataDirEnv = "SYNDIAL_DATA_DIR"

type loadedConfig struct {
	Path   string // empty when built-in defaults are used
	Config toolConfig
}

type toolConfig struct {
	DataDir     string         `toml:"data_dir"`
	UI          string         `toml:"ui"`
	Jobs        int            `toml:"jobs"`
	ArchiveDirs []string       `toml:"archive_dirs"`
	Cache       cacheConfig    `toml:"cache"`
	Presets     []presetConfig `toml:"preset"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// presetConfig mirrors one "Set Syntax Dialect: ..." command palette entry.
type presetConfig struct {
	Caption    string `toml:"caption"`
	SyntaxFile string `toml:"syntax_file"`
}

func defaultToolConfig() toolConfig {
	return toolConfig{
		Cache: cacheConfig{Enabled: true},
	}
}

// findConfigFile walks up from startDir looking for syndial.toml.
func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// userConfigFile returns $XDG_CONFIG_HOME/syndial/syndial.toml (or the OS equivalent).
func userConfigFile() (string, bool) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	p := filepath.Join(base, "syndial", configFileName)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// loadConfig reads explicit when set; otherwise the nearest syndial.toml above
// startDir, then the user config file, then built-in defaults.
func loadConfig(explicit, startDir string) (*loadedConfig, error) {
	path := explicit
	if path == "" {
		found, ok, err := findConfigFile(startDir)
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		} else if user, ok := userConfigFile(); ok {
			path = user
		}
	}
	if path == "" {
		return &loadedConfig{Config: defaultToolConfig()}, nil
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return &loadedConfig{Path: path, Config: cfg}, nil
}

func loadConfigFile(path string) (toolConfig, error) {
	cfg := defaultToolConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return toolConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return toolConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("ui") {
		if _, err := readUIMode(cfg.UI); err != nil {
			return toolConfig{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if cfg.Jobs < 0 {
		return toolConfig{}, fmt.Errorf("%s: jobs must not be negative", path)
	}
	for i, p := range cfg.Presets {
		if strings.TrimSpace(p.Caption) == "" {
			return toolConfig{}, fmt.Errorf("%s: missing [[preset]].caption (entry %d)", path, i+1)
		}
		if strings.TrimSpace(p.SyntaxFile) == "" {
			return toolConfig{}, fmt.Errorf("%s: missing [[preset]].syntax_file for %q", path, p.Caption)
		}
	}

	base := filepath.Dir(path)
	cfg.DataDir = resolveConfigPath(base, cfg.DataDir)
	cfg.Cache.Dir = resolveConfigPath(base, cfg.Cache.Dir)
	for i, dir := range cfg.ArchiveDirs {
		cfg.ArchiveDirs[i] = resolveConfigPath(base, dir)
	}
	return cfg, nil
}

// resolveConfigPath expands "~/" and makes relative paths relative to base.
func resolveConfigPath(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// findPreset matches a caption case-insensitively, with or without the
// "Set Syntax Dialect: " prefix.
func (c toolConfig) findPreset(name string) (presetConfig, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.Presets {
		caption := strings.ToLower(p.Caption)
		if caption == want || strings.TrimPrefix(caption, "set syntax dialect: ") == want {
			return p, true
		}
	}
	return presetConfig{}, false
}

// defaultDataDir returns the editor data directory: the parent of Packages.
func defaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Sublime Text"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Sublime Text"), nil
		}
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sublime-text"), nil
}

func defaultConfigContent(dataDir string) string {
	return fmt.Sprintf(`# syndial configuration
# data_dir is the editor data directory, the parent of its Packages directory.
data_dir = %q

# ui = "auto" | "on" | "off"
ui = "auto"

# parallel header decoders, 0 uses every CPU
jobs = 0

# directories with zipped *.sublime-package files shipped next to the editor
archive_dirs = []

[cache]
enabled = true

[[preset]]
caption = "Set Syntax Dialect: SQL"
syntax_file = "Packages/SQL/SQL.sublime-syntax"
`, dataDir)
}
