package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("DRONESET_DATASET_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DatasetDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("DRONESET_METADATA_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.MetadataFile = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.DatasetDir) == "" {
		c.Paths.DatasetDir = defaultDatasetDir
	}
	if c.Paths.DatasetDir, err = expandPath(c.Paths.DatasetDir); err != nil {
		return fmt.Errorf("paths.dataset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MetadataFile) == "" {
		c.Paths.MetadataFile = filepath.Join(c.Paths.DatasetDir, defaultMetadataName)
	}
	if c.Paths.MetadataFile, err = expandPath(c.Paths.MetadataFile); err != nil {
		return fmt.Errorf("paths.metadata_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.SummaryCSV) == "" {
		c.Paths.SummaryCSV = filepath.Join(c.Paths.DatasetDir, defaultSummaryName)
	}
	if c.Paths.SummaryCSV, err = expandPath(c.Paths.SummaryCSV); err != nil {
		return fmt.Errorf("paths.summary_csv: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = filepath.Join(os.TempDir(), "droneset")
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YTDLP = strings.TrimSpace(c.Tools.YTDLP)
	if c.Tools.YTDLP == "" {
		c.Tools.YTDLP = defaultYTDLP
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFplay = strings.TrimSpace(c.Tools.FFplay)
	if c.Tools.FFplay == "" {
		c.Tools.FFplay = defaultFFplay
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
