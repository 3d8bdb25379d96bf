package staticcompress

import (
	"fmt"
	"io"
	"log/slog"
	"path"
)

// methodEntry binds a configuration key to the artifact extension it
// produces and the encoder behind it.
type methodEntry struct {
	extension string
	newWriter func(w io.Writer) (io.WriteCloser, error)
}

// Method table. gz and gz+zlib both produce .gz and cannot be active
// together.
var methodTable = map[string]methodEntry{
	"gz":      {"gz", createMaxGzipWriter},
	"gz+zlib": {"gz", createZlibGzipWriter},
	"br":      {"br", createBrotliWriter},
	"zst":     {"zst", createZstdWriter},
	"lz4":     {"lz4", createLZ4Writer},
	"sz":      {"sz", createSnappyWriter},
}

var methodOrder = []string{"gz", "gz+zlib", "br", "zst", "lz4", "sz"}

// Methods returns the known compression method keys
func Methods() []string {
	return append([]string(nil), methodOrder...)
}

// NewCompressor returns the compressor for a method key
func NewCompressor(method string) (Compressor, error) {
	entry, ok := methodTable[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return &streamCompressor{
		method:    method,
		extension: entry.extension,
		newWriter: entry.newWriter,
	}, nil
}

// resolveCompressors turns configured keys into compressors, keeping
// their order. Unknown keys are skipped; an empty result or two keys
// sharing an extension is a configuration error.
func resolveCompressors(methods []string, logger *slog.Logger) ([]Compressor, error) {
	var compressors []Compressor
	seen := make(map[string]bool)
	byExtension := make(map[string]string)

	for _, method := range methods {
		if seen[method] {
			continue
		}
		seen[method] = true

		c, err := NewCompressor(method)
		if err != nil {
			logger.Warn("ignoring unknown compression method", "method", method)
			continue
		}
		if prev, ok := byExtension[c.Extension()]; ok {
			return nil, &ConfigError{
				Setting: fmt.Sprintf("%s and %s cannot be used at the same time", prev, method),
				Err:     ErrMethodConflict,
			}
		}
		byExtension[c.Extension()] = method
		compressors = append(compressors, c)
	}

	if len(compressors) == 0 {
		return nil, &ConfigError{
			Setting: fmt.Sprintf("methods %q", methods),
			Err:     ErrNoMethods,
		}
	}
	return compressors, nil
}

// ArtifactName returns the path of the artifact a compressor with the
// given extension produces for dest.
func ArtifactName(dest, ext string) string {
	return dest + "." + ext
}

// extensionFilter is the set of extensions eligible for compression
type extensionFilter map[string]struct{}

func newExtensionFilter(exts []string) extensionFilter {
	f := make(extensionFilter, len(exts))
	for _, ext := range exts {
		if len(ext) > 0 && ext[0] == '.' {
			ext = ext[1:]
		}
		if ext != "" {
			f[ext] = struct{}{}
		}
	}
	return f
}

// allows reports whether the extension of name (the text after its last
// dot) is in the set.
func (f extensionFilter) allows(name string) bool {
	ext := path.Ext(path.Base(name))
	if ext == "" {
		return false
	}
	_, ok := f[ext[1:]]
	return ok
}

// IsAllowed reports whether name is eligible for compression
func (s *Store) IsAllowed(name string) bool {
	return s.allowed.allows(name)
}
