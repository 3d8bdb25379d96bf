package staticcompress

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor turns a source stream into the bytes of one artifact.
// Implementations hold no mutable state; a nil result means the
// compressor declined and no artifact is written.
type Compressor interface {
	// Method returns the configuration key the compressor was built from
	Method() string

	// Extension returns the artifact extension, without the leading dot
	Extension() string

	// Compress reads r to the end and returns the compressed bytes
	Compress(r io.Reader) ([]byte, error)
}

// streamCompressor adapts a streaming encoder to Compressor
type streamCompressor struct {
	method    string
	extension string
	newWriter func(w io.Writer) (io.WriteCloser, error)
}

func (c *streamCompressor) Method() string    { return c.method }
func (c *streamCompressor) Extension() string { return c.extension }

func (c *streamCompressor) Compress(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.newWriter(&buf)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	// Nothing to serve for an empty source
	if n == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

// Gzip at the strongest setting
func createMaxGzipWriter(w io.Writer) (io.WriteCloser, error) {
	return kgzip.NewWriterLevel(w, kgzip.BestCompression)
}

// Gzip through the standard library's zlib-derived encoder
func createZlibGzipWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.DefaultCompression)
}

func createBrotliWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriterLevel(w, brotli.BestCompression), nil
}

func createZstdWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
}

func createLZ4Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
		return nil, err
	}
	return zw, nil
}

func createSnappyWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

// Decompress returns a reader yielding the original bytes of an artifact
// with the given extension.
func Decompress(ext string, r io.Reader) (io.ReadCloser, error) {
	switch ext {
	case "gz":
		return kgzip.NewReader(r)
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	case "zst":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case "lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	case "sz":
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return nil, ErrUnsupportedExtension
	}
}
