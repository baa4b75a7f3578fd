// internal/config/config.go
//
// This package handles configuration and the .drawdeck directory
// structure. Every directory DrawDeck runs from gets a .drawdeck/ folder
// holding the config file, the session log, and CSV exports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory we create next to the user's data.
	Dir = ".drawdeck"

	// APIKeyEnv is where the naming collaborator's key is read from.
	APIKeyEnv = "GEMINI_API_KEY"
)

const defaultConfigYAML = `# drawdeck configuration
version: 1

# AI team naming. The API key is read from the GEMINI_API_KEY environment
# variable, never from this file.
naming:
  enabled: false
  model: gemini-2.0-flash
  theme: workplace energy

draw:
  # Label applied to history entries drawn without a prize name.
  default_prize: Mystery Prize

export:
  # Relative paths resolve under .drawdeck/
  dir: exports
`

// NamingConfig controls the AI team-naming collaborator.
type NamingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	Theme   string `yaml:"theme"`
}

// DrawConfig carries draw defaults.
type DrawConfig struct {
	DefaultPrize string `yaml:"default_prize"`
}

// ExportConfig controls where CSV exports land.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// FileConfig models .drawdeck/config.yaml.
type FileConfig struct {
	Version int          `yaml:"version"`
	Naming  NamingConfig `yaml:"naming"`
	Draw    DrawConfig   `yaml:"draw"`
	Export  ExportConfig `yaml:"export"`
}

// Config holds the runtime configuration for DrawDeck.
type Config struct {
	// ProjectDir is the directory the user ran drawdeck from.
	ProjectDir string

	// DeckDir is ProjectDir/.drawdeck.
	DeckDir string

	File FileConfig
}

// InitDir creates the .drawdeck directory structure in the given project
// directory. Called once on startup.
//
// Structure created:
// .drawdeck/
// ├── logs/        <- session log (journey.log)
// ├── exports/     <- CSV exports
// └── config.yaml
func InitDir(projectDir string) error {
	deckDir := filepath.Join(projectDir, Dir)
	for _, dir := range []string{
		filepath.Join(deckDir, "logs"),
		filepath.Join(deckDir, "exports"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(deckDir, "config.yaml"))
}

// ensureConfigFile writes the commented default config if none exists yet.
func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// defaults returns the built-in configuration values. The default YAML is
// the single source of truth for them.
func defaults() FileConfig {
	var cfg FileConfig
	_ = yaml.Unmarshal([]byte(defaultConfigYAML), &cfg)
	return cfg
}

// New loads the configuration for projectDir. A missing config file yields
// the defaults; a malformed one is an error.
func New(projectDir string) (*Config, error) {
	deckDir := filepath.Join(projectDir, Dir)
	cfg := &Config{
		ProjectDir: projectDir,
		DeckDir:    deckDir,
		File:       defaults(),
	}
	path := filepath.Join(deckDir, "config.yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg.File); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.fillBlanks()
	return cfg, nil
}

// fillBlanks backstops fields a hand-edited config file may have emptied.
func (c *Config) fillBlanks() {
	def := defaults()
	if strings.TrimSpace(c.File.Naming.Model) == "" {
		c.File.Naming.Model = def.Naming.Model
	}
	if strings.TrimSpace(c.File.Naming.Theme) == "" {
		c.File.Naming.Theme = def.Naming.Theme
	}
	if strings.TrimSpace(c.File.Draw.DefaultPrize) == "" {
		c.File.Draw.DefaultPrize = def.Draw.DefaultPrize
	}
	if strings.TrimSpace(c.File.Export.Dir) == "" {
		c.File.Export.Dir = def.Export.Dir
	}
}

// LogPath is where the session logbook writes.
func (c *Config) LogPath() string {
	return filepath.Join(c.DeckDir, "logs", "journey.log")
}

// ExportDir resolves the export directory, keeping relative paths inside
// .drawdeck/.
func (c *Config) ExportDir() string {
	dir := c.File.Export.Dir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.DeckDir, dir)
}

// GeminiAPIKey reads the naming collaborator's key from the environment.
func (c *Config) GeminiAPIKey() string {
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}
