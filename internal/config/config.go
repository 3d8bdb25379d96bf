package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/absfs/staticcompress"
)

// Config is the configuration of the staticcompress command
type Config struct {
	// Root is the directory published files live in
	Root string `yaml:"root" mapstructure:"root"`

	// Source is the directory files were collected from. Its modification
	// times decide staleness when set; otherwise Root's are used.
	Source string `yaml:"source" mapstructure:"source"`

	// Manifest names a hashing manifest inside Root
	Manifest string `yaml:"manifest" mapstructure:"manifest"`

	FileExts     []string `yaml:"file_exts" mapstructure:"file_exts"`
	Methods      []string `yaml:"methods" mapstructure:"methods"`
	KeepOriginal bool     `yaml:"keep_original" mapstructure:"keep_original"`
	MinSizeKB    int64    `yaml:"min_size_kb" mapstructure:"min_size_kb"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string `yaml:"log_file" mapstructure:"log_file"`

	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Policy returns the post-processing policy of the configuration
func (c *Config) Policy() *staticcompress.Config {
	return &staticcompress.Config{
		Extensions:   append([]string(nil), c.FileExts...),
		Methods:      append([]string(nil), c.Methods...),
		KeepOriginal: c.KeepOriginal,
		MinSizeKB:    c.MinSizeKB,
	}
}

// OriginDir returns the directory whose modification times decide
// staleness.
func (c *Config) OriginDir() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Root
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
