package staticcompress

import (
	"bytes"
	"io"
)

// CompressBytes compresses data with the given method
func CompressBytes(data []byte, method string) ([]byte, error) {
	c, err := NewCompressor(method)
	if err != nil {
		return nil, err
	}
	return c.Compress(bytes.NewReader(data))
}

// DecompressBytes decompresses the content of an artifact with the given
// extension
func DecompressBytes(data []byte, ext string) ([]byte, error) {
	r, err := Decompress(ext, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// CompressionRatio returns compressed size over original size
// E.g., 0.25 means the artifact is a quarter of the source
func CompressionRatio(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return float64(compressedSize) / float64(originalSize)
}

// SpacePercentage returns the percentage of bytes saved (0-100)
func SpacePercentage(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return (1 - float64(compressedSize)/float64(originalSize)) * 100
}
