package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config search location at empty directories
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STATICCOMPRESS_CONFIG_DIR", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "staticcompress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	want := NewDefaultConfig()
	assert.Equal(t, &want, cfg)
}

func TestLoad_FromPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `root: /srv/static
source: /src/assets
manifest: staticfiles.json
file_exts: [js, css, html]
methods: [gz+zlib, br, zst]
keep_original: false
min_size_kb: 4
log_level: debug
log_file: /var/log/staticcompress.log
watch:
  debounce: 2s
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/static", cfg.Root)
	assert.Equal(t, "/src/assets", cfg.Source)
	assert.Equal(t, "staticfiles.json", cfg.Manifest)
	assert.Equal(t, []string{"js", "css", "html"}, cfg.FileExts)
	assert.Equal(t, []string{"gz+zlib", "br", "zst"}, cfg.Methods)
	assert.False(t, cfg.KeepOriginal)
	assert.Equal(t, int64(4), cfg.MinSizeKB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/staticcompress.log", cfg.LogFile)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_SearchesConfigDir(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("STATICCOMPRESS_CONFIG_DIR", dir)
	writeConfig(t, dir, "min_size_kb: 12\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), cfg.MinSizeKB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "min_size_kb: 12\nmethods: [gz]\n")
	t.Setenv("STATICCOMPRESS_MIN_SIZE_KB", "50")
	t.Setenv("STATICCOMPRESS_METHODS", "br,zst")
	t.Setenv("STATICCOMPRESS_WATCH_DEBOUNCE", "3s")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50), cfg.MinSizeKB)
	assert.Equal(t, []string{"br", "zst"}, cfg.Methods)
	assert.Equal(t, 3*time.Second, cfg.Watch.Debounce)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "min_size_kb: 12\nroot: /from/file\n")
	t.Setenv("STATICCOMPRESS_MIN_SIZE_KB", "50")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(t, flags.Parse([]string{"--min-size-kb=1", "--keep-original=false"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.MinSizeKB)
	assert.False(t, cfg.KeepOriginal)
	// Unchanged flags leave file values alone
	assert.Equal(t, "/from/file", cfg.Root)
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "min_size_kb: -1\nlog_level: loud\n")

	_, err := Load(path, nil)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestConfig_Policy(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MinSizeKB = 2
	policy := cfg.Policy()

	assert.Equal(t, []string{"js", "css", "svg"}, policy.Extensions)
	assert.Equal(t, []string{"gz", "br"}, policy.Methods)
	assert.True(t, policy.KeepOriginal)
	assert.Equal(t, int64(2), policy.MinSizeKB)

	policy.Methods[0] = "zst"
	assert.Equal(t, "gz", cfg.Methods[0], "policy must not alias the config")
}

func TestConfig_OriginDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Root = "/srv/static"
	assert.Equal(t, "/srv/static", cfg.OriginDir())

	cfg.Source = "/src/assets"
	assert.Equal(t, "/src/assets", cfg.OriginDir())
}

func TestConfig_YAML(t *testing.T) {
	cfg := NewDefaultConfig()
	data, err := cfg.YAML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "min_size_kb: 30")
	assert.Contains(t, out, "keep_original: true")
	assert.Contains(t, out, "debounce: 500ms")
}
