// internal/config/config.go
//
// This package handles the optional .standardize.yaml project file.
// Every setting has a default, so running without the file behaves exactly
// like a bare invocation against data/companies.json.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/primary-risks/internal/company"
	"github.com/kingrea/primary-risks/internal/dataset"
)

const (
	// FileName is the project config file looked up in the working directory.
	FileName = ".standardize.yaml"

	defaultLogLevel = "warn"
	defaultDebounce = 500 * time.Millisecond
)

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ProjectConfig models .standardize.yaml.
type ProjectConfig struct {
	Version int         `yaml:"version"`
	Dataset string      `yaml:"dataset"`
	Bullet  int         `yaml:"bullet"`
	History string      `yaml:"history"`
	Log     LogConfig   `yaml:"log"`
	Watch   WatchConfig `yaml:"watch"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory relative paths are resolved against.
	ProjectDir string

	// Path is the config file that was read; empty when none existed.
	Path string

	Project ProjectConfig
}

// Load reads path (or ProjectDir/.standardize.yaml when path is empty). A
// missing default file yields the defaults; a missing explicit file is an error.
func Load(projectDir, path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = filepath.Join(projectDir, FileName)
	} else {
		path = resolvePath(projectDir, path)
	}
	cfg := &Config{ProjectDir: projectDir, Project: defaultProjectConfig()}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			cfg.Project.normalize(projectDir)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize(projectDir)
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	cfg.Project = parsed
	return cfg, nil
}

// DatasetPath returns the absolute path of the companies file.
func (c *Config) DatasetPath() string {
	return c.Project.Dataset
}

// SetDatasetPath overrides the dataset location, resolving relative paths
// against the project directory.
func (c *Config) SetDatasetPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config: dataset path is required")
	}
	c.Project.Dataset = resolvePath(c.ProjectDir, path)
	return nil
}

// Bullet returns the bullet number treated as Primary Risks.
func (c *Config) Bullet() int {
	return c.Project.Bullet
}

// HistoryPath returns where run history is appended; empty when history is
// not enabled.
func (c *Config) HistoryPath() string {
	return c.Project.History
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Project.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// LogFile returns the optional extra log destination.
func (c *Config) LogFile() string {
	return c.Project.Log.File
}

// Debounce returns the watch-mode debounce window.
func (c *Config) Debounce() time.Duration {
	return c.Project.Watch.Debounce
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Dataset) == "" {
		pc.Dataset = dataset.DefaultPath
	}
	if pc.Bullet == 0 {
		pc.Bullet = company.PrimaryRisksN
	}
	if strings.TrimSpace(pc.Log.Level) == "" {
		pc.Log.Level = defaultLogLevel
	}
	if pc.Watch.Debounce == 0 {
		pc.Watch.Debounce = defaultDebounce
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Dataset = resolvePath(base, pc.Dataset)
	pc.History = resolvePath(base, pc.History)
	pc.Log.Level = strings.ToLower(strings.TrimSpace(pc.Log.Level))
	pc.Log.File = resolvePath(base, pc.Log.File)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Bullet < 1 {
		return fmt.Errorf("bullet must be >= 1")
	}
	if _, err := zapcore.ParseLevel(pc.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if pc.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
