package staticcompress

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
)

// Config holds the post-processing policy for one run
type Config struct {
	// Extensions eligible for compression, without the leading dot.
	// An empty list means no file is eligible.
	Extensions []string

	// Compression method keys, in iteration order (see Methods)
	Methods []string

	// Keep the uncompressed file once its artifacts are written
	KeepOriginal bool // default: true

	// Minimum file size to compress, in kilobytes (files below it never
	// have artifacts)
	MinSizeKB int64 // default: 30
}

// DefaultConfig returns a config with the stock policy: js, css and svg
// files of at least 30KB get .gz and .br siblings, originals are kept.
func DefaultConfig() *Config {
	return &Config{
		Extensions:   []string{"js", "css", "svg"},
		Methods:      []string{"gz", "br"},
		KeepOriginal: true,
		MinSizeKB:    30,
	}
}

// MinSizeBytes returns the size threshold in bytes
func (c *Config) MinSizeBytes() int64 {
	return c.MinSizeKB * 1024
}

func (c *Config) clone() *Config {
	return &Config{
		Extensions:   append([]string(nil), c.Extensions...),
		Methods:      append([]string(nil), c.Methods...),
		KeepOriginal: c.KeepOriginal,
		MinSizeKB:    c.MinSizeKB,
	}
}

var (
	ErrImproperlyConfigured = errors.New("staticcompress: improperly configured")
	ErrNoMethods            = errors.New("staticcompress: no valid compression method")
	ErrMethodConflict       = errors.New("staticcompress: compression methods produce the same extension")
	ErrUnknownMethod        = errors.New("staticcompress: unknown compression method")
	ErrUnsupportedExtension = errors.New("staticcompress: unsupported compressed extension")
	ErrMissingCapability    = errors.New("staticcompress: storage capability not implemented")
	ErrNotSupported         = errors.New("staticcompress: operation not supported by storage")
	ErrArtifactMismatch     = errors.New("staticcompress: artifact does not match source")
)

// ConfigError reports a policy or storage setup problem. It aborts the
// whole run and always matches ErrImproperlyConfigured.
type ConfigError struct {
	Setting string // policy setting or storage capability
	Name    string // file involved, empty for policy errors
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Setting)
	}
	return fmt.Sprintf("%v: %s for %q", e.Err, e.Setting, e.Name)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrImproperlyConfigured }

func missingCapability(capability, name string) error {
	return &ConfigError{
		Setting: "storage must implement " + capability + "() or provide Path()",
		Name:    name,
		Err:     ErrMissingCapability,
	}
}

// RecordError is a failure isolated to one publish record. The run
// carries on with the next record.
type RecordError struct {
	Name string
	Op   string
	Err  error
}

func (e *RecordError) Error() string {
	return "staticcompress: " + e.Op + " " + e.Name + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error { return e.Err }

// recordError wraps err for name unless it is a configuration error,
// which must stay visible as such to abort the run.
func recordError(name, op string, err error) error {
	if errors.Is(err, ErrImproperlyConfigured) {
		return err
	}
	return &RecordError{Name: name, Op: op, Err: err}
}

// Stats holds post-processing statistics
type Stats struct {
	RecordsSeen           int64
	RecordsIneligible     int64
	RecordsBelowThreshold int64
	RecordsFailed         int64

	ArtifactsFresh   int64
	ArtifactsWritten int64
	ArtifactsDeleted int64
	OriginalsDeleted int64

	BytesRead    int64
	BytesWritten int64

	MethodCounts map[string]int64
}

// CompressionRatio returns written artifact bytes over source bytes read
func (s *Stats) CompressionRatio() float64 {
	return CompressionRatio(s.BytesRead, s.BytesWritten)
}

type counters struct {
	recordsSeen           atomic.Int64
	recordsIneligible     atomic.Int64
	recordsBelowThreshold atomic.Int64
	recordsFailed         atomic.Int64
	artifactsFresh        atomic.Int64
	artifactsWritten      atomic.Int64
	artifactsDeleted      atomic.Int64
	originalsDeleted      atomic.Int64
	bytesRead             atomic.Int64
	bytesWritten          atomic.Int64

	mu      sync.Mutex
	methods map[string]int64
}

func (c *counters) incrementMethod(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.methods == nil {
		c.methods = make(map[string]int64)
	}
	c.methods[method]++
}

// Store wraps a destination Storage with precompression. It implements
// Storage itself, so it can stand in for the base wherever published
// files are read back; its time queries follow the metadata proxy rules.
type Store struct {
	base        Storage
	config      *Config
	compressors []Compressor
	allowed     extensionFilter
	caps        capabilities
	aliases     Aliaser
	upstream    PostProcessor
	logger      *slog.Logger
	stats       counters
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for per-file events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAliaser sets the hashing stage mapping consulted to resolve a
// record's destination path.
func WithAliaser(a Aliaser) Option {
	return func(s *Store) { s.aliases = a }
}

// WithUpstream sets a pipeline stage whose results PostProcess forwards
// before doing its own work.
func WithUpstream(p PostProcessor) Option {
	return func(s *Store) { s.upstream = p }
}

// New creates a precompressing store over base. The method list is
// resolved and validated here, before any file is touched; a nil config
// selects DefaultConfig.
func New(base Storage, config *Config, opts ...Option) (*Store, error) {
	if base == nil {
		return nil, &ConfigError{Setting: "storage", Err: ErrImproperlyConfigured}
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.MinSizeKB < 0 {
		return nil, &ConfigError{
			Setting: fmt.Sprintf("min size %dKB is negative", config.MinSizeKB),
			Err:     ErrImproperlyConfigured,
		}
	}

	s := &Store{
		base:   base,
		config: config.clone(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	compressors, err := resolveCompressors(s.config.Methods, s.logger)
	if err != nil {
		return nil, err
	}
	s.compressors = compressors
	s.allowed = newExtensionFilter(s.config.Extensions)
	s.caps = probe(base)
	return s, nil
}

// Config returns a copy of the store's policy
func (s *Store) Config() *Config {
	return s.config.clone()
}

// Compressors returns the active compressors in iteration order
func (s *Store) Compressors() []Compressor {
	return append([]Compressor(nil), s.compressors...)
}

// Stats returns current statistics
func (s *Store) Stats() *Stats {
	s.stats.mu.Lock()
	methods := maps.Clone(s.stats.methods)
	s.stats.mu.Unlock()
	if methods == nil {
		methods = map[string]int64{}
	}

	return &Stats{
		RecordsSeen:           s.stats.recordsSeen.Load(),
		RecordsIneligible:     s.stats.recordsIneligible.Load(),
		RecordsBelowThreshold: s.stats.recordsBelowThreshold.Load(),
		RecordsFailed:         s.stats.recordsFailed.Load(),
		ArtifactsFresh:        s.stats.artifactsFresh.Load(),
		ArtifactsWritten:      s.stats.artifactsWritten.Load(),
		ArtifactsDeleted:      s.stats.artifactsDeleted.Load(),
		OriginalsDeleted:      s.stats.originalsDeleted.Load(),
		BytesRead:             s.stats.bytesRead.Load(),
		BytesWritten:          s.stats.bytesWritten.Load(),
		MethodCounts:          methods,
	}
}

// ResetStats resets statistics to zero
func (s *Store) ResetStats() {
	s.stats.recordsSeen.Store(0)
	s.stats.recordsIneligible.Store(0)
	s.stats.recordsBelowThreshold.Store(0)
	s.stats.recordsFailed.Store(0)
	s.stats.artifactsFresh.Store(0)
	s.stats.artifactsWritten.Store(0)
	s.stats.artifactsDeleted.Store(0)
	s.stats.originalsDeleted.Store(0)
	s.stats.bytesRead.Store(0)
	s.stats.bytesWritten.Store(0)

	s.stats.mu.Lock()
	s.stats.methods = nil
	s.stats.mu.Unlock()
}
