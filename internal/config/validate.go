package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DatasetDir) == "" {
		return errors.New("paths.dataset_dir must be set")
	}
	if strings.TrimSpace(c.Paths.MetadataFile) == "" {
		return errors.New("paths.metadata_file must be set")
	}
	if filepath.Ext(c.Paths.MetadataFile) != ".json" {
		return fmt.Errorf("paths.metadata_file must be a .json file, got %q", c.Paths.MetadataFile)
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if err := c.SegmentParams().Validate(); err != nil {
		return fmt.Errorf("segmentation: %w", err)
	}
	return nil
}
