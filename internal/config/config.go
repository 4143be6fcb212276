package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"droneset/internal/segment"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains dataset and working directory configuration.
type Paths struct {
	DatasetDir   string `toml:"dataset_dir"`
	MetadataFile string `toml:"metadata_file"`
	SummaryCSV   string `toml:"summary_csv"`
	WorkDir      string `toml:"work_dir"`
	LogDir       string `toml:"log_dir"`
}

// Segmentation contains clip windowing parameters.
type Segmentation struct {
	SegmentLengthMS int64 `toml:"segment_length_ms"`
	StepMS          int64 `toml:"step_ms"`
}

// Tools contains the names or paths of external executables used by the
// acquisition and preview collaborators.
type Tools struct {
	YTDLP  string `toml:"ytdlp"`
	FFmpeg string `toml:"ffmpeg"`
	FFplay string `toml:"ffplay"`
}

// Labeling contains configuration for the interactive labeler.
type Labeling struct {
	Preview bool `toml:"preview"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for droneset.
type Config struct {
	Paths        Paths        `toml:"paths"`
	Segmentation Segmentation `toml:"segmentation"`
	Tools        Tools        `toml:"tools"`
	Labeling     Labeling     `toml:"labeling"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/droneset/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("inspect config %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("droneset.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the dataset audio root and, when configured, the
// log and work directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.AudioDir(), filepath.Dir(c.Paths.MetadataFile)}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	if c.Paths.WorkDir != "" {
		dirs = append(dirs, c.Paths.WorkDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AudioDir returns the root under which clip directories live.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Paths.DatasetDir, defaultAudioSubdir)
}

// LockPath returns the advisory lock file guarding the metadata store.
func (c *Config) LockPath() string {
	return c.Paths.MetadataFile + ".lock"
}

// SegmentParams returns the windowing parameters for the engine.
func (c *Config) SegmentParams() segment.Params {
	return segment.Params{
		SegmentLengthMS: c.Segmentation.SegmentLengthMS,
		StepMS:          c.Segmentation.StepMS,
	}
}

// ClipDurationSeconds is the duration recorded in metadata for every clip.
func (c *Config) ClipDurationSeconds() float64 {
	return float64(c.Segmentation.SegmentLengthMS) / 1000
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
