package config

import (
	"time"

	"github.com/absfs/staticcompress"
)

const (
	DefaultRoot          = "."
	DefaultKeepOriginal  = true
	DefaultMinSizeKB     = 30
	DefaultLogLevel      = "info"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// DefaultFileExts returns the extensions compressed by default
func DefaultFileExts() []string {
	return staticcompress.DefaultConfig().Extensions
}

// DefaultMethods returns the compression methods used by default
func DefaultMethods() []string {
	return staticcompress.DefaultConfig().Methods
}

// NewDefaultConfig returns a configuration holding only defaults
func NewDefaultConfig() Config {
	return Config{
		Root:         DefaultRoot,
		FileExts:     DefaultFileExts(),
		Methods:      DefaultMethods(),
		KeepOriginal: DefaultKeepOriginal,
		MinSizeKB:    DefaultMinSizeKB,
		LogLevel:     DefaultLogLevel,
		Watch:        WatchConfig{Debounce: DefaultWatchDebounce},
	}
}
