package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "STATICCOMPRESS"
	configName = "staticcompress"
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"root":          "root",
	"source":        "source",
	"manifest":      "manifest",
	"file-exts":     "file_exts",
	"methods":       "methods",
	"keep-original": "keep_original",
	"min-size-kb":   "min_size_kb",
	"log-level":     "log_level",
	"log-file":      "log_file",
	"debounce":      "watch.debounce",
}

// AddFlags registers the configuration flags on flags
func AddFlags(flags *pflag.FlagSet) {
	flags.String("root", DefaultRoot, "Directory holding the published files")
	flags.String("source", "", "Directory the files were collected from (staleness is judged against it)")
	flags.String("manifest", "", "Hashing manifest inside root mapping logical to hashed names")
	flags.StringSlice("file-exts", DefaultFileExts(), "Extensions eligible for compression")
	flags.StringSlice("methods", DefaultMethods(), "Compression methods, in order")
	flags.Bool("keep-original", DefaultKeepOriginal, "Keep uncompressed files after compressing them")
	flags.Int64("min-size-kb", DefaultMinSizeKB, "Minimum file size to compress, in KB")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.Duration("debounce", DefaultWatchDebounce, "Quiet period before a watch re-run")
}

// Load reads the configuration. An explicit path must exist; otherwise
// staticcompress.yaml is searched in priority order:
//  1. Directory specified by STATICCOMPRESS_CONFIG_DIR
//  2. ~/.config/staticcompress/
//  3. Current working directory (.)
//
// A missing file is fine and leaves defaults in place. Environment
// variables (STATICCOMPRESS_MIN_SIZE_KB, ...) override the file and
// changed flags override both.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		if dir := os.Getenv(envPrefix + "_CONFIG_DIR"); dir != "" {
			v.AddConfigPath(dir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config; %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}
	return unmarshalConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q; %w", name, err)
		}
	}
	return nil
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}
	cfg.FileExts = splitList(cfg.FileExts)
	cfg.Methods = splitList(cfg.Methods)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma separated entries, as environment variables
// deliver lists as a single string.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("source", "")
	v.SetDefault("manifest", "")
	v.SetDefault("file_exts", DefaultFileExts())
	v.SetDefault("methods", DefaultMethods())
	v.SetDefault("keep_original", DefaultKeepOriginal)
	v.SetDefault("min_size_kb", DefaultMinSizeKB)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("watch.debounce", DefaultWatchDebounce)
}
