package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	DefaultMediaDir = "public/media"
	DefaultPattern  = "ezgif-frame-*.png"
	DefaultMaxWidth = 1920
	DefaultQuality  = 80
)

type Config struct {
	BaseDir  string
	MediaDir string
	Pattern  string
	MaxWidth int
	Quality  float32
}

// Default returns the fixed run settings resolved against baseDir. Nothing is
// read from the environment or the command line.
func Default(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		MediaDir: DefaultMediaDir,
		Pattern:  DefaultPattern,
		MaxWidth: DefaultMaxWidth,
		Quality:  DefaultQuality,
	}
}

func (c *Config) TargetDir() string {
	return filepath.Join(c.BaseDir, filepath.FromSlash(c.MediaDir))
}

func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base directory is required")
	}
	if c.Pattern == "" {
		return errors.New("file pattern is required")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("invalid file pattern %q: %w", c.Pattern, err)
	}
	if c.MaxWidth <= 0 {
		return fmt.Errorf("max width must be positive, got %d", c.MaxWidth)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be within 0..100, got %v", c.Quality)
	}
	return nil
}
