package staticcompress

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestAllMethods(t *testing.T) {
	testData := []byte(strings.Repeat("Hello, World! This is test data for precompressed static files. ", 40))

	methods := []struct {
		method string
		ext    string
	}{
		{"gz", "gz"},
		{"gz+zlib", "gz"},
		{"br", "br"},
		{"zst", "zst"},
		{"lz4", "lz4"},
		{"sz", "sz"},
	}

	for _, tt := range methods {
		t.Run(tt.method, func(t *testing.T) {
			c, err := NewCompressor(tt.method)
			if err != nil {
				t.Fatalf("Failed to create compressor: %v", err)
			}
			if c.Method() != tt.method {
				t.Errorf("Expected method %q, got %q", tt.method, c.Method())
			}
			if c.Extension() != tt.ext {
				t.Errorf("Expected extension %q, got %q", tt.ext, c.Extension())
			}

			out, err := c.Compress(bytes.NewReader(testData))
			if err != nil {
				t.Fatalf("Failed to compress: %v", err)
			}
			if len(out) == 0 {
				t.Fatal("Expected compressed output")
			}
			if len(out) >= len(testData) {
				t.Errorf("Expected output smaller than %d bytes, got %d", len(testData), len(out))
			}

			r, err := Decompress(c.Extension(), bytes.NewReader(out))
			if err != nil {
				t.Fatalf("Failed to create decompressor: %v", err)
			}
			defer r.Close()

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(got, testData) {
				t.Fatalf("Round trip mismatch: expected %d bytes, got %d", len(testData), len(got))
			}
		})
	}
}

func TestCompressorDeclinesEmptyInput(t *testing.T) {
	for _, method := range Methods() {
		t.Run(method, func(t *testing.T) {
			c, err := NewCompressor(method)
			if err != nil {
				t.Fatalf("Failed to create compressor: %v", err)
			}
			out, err := c.Compress(bytes.NewReader(nil))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out != nil {
				t.Errorf("Expected nil output for empty input, got %d bytes", len(out))
			}
		})
	}
}

func TestCompressorIsReusable(t *testing.T) {
	c, err := NewCompressor("br")
	if err != nil {
		t.Fatalf("Failed to create compressor: %v", err)
	}

	first, err := c.Compress(strings.NewReader(strings.Repeat("a", 1000)))
	if err != nil {
		t.Fatalf("First compress failed: %v", err)
	}
	second, err := c.Compress(strings.NewReader(strings.Repeat("b", 1000)))
	if err != nil {
		t.Fatalf("Second compress failed: %v", err)
	}

	got, err := DecompressBytes(second, "br")
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	if string(got) != strings.Repeat("b", 1000) {
		t.Fatal("Second output carries state from the first call")
	}
	if bytes.Equal(first, second) {
		t.Fatal("Different inputs produced identical output")
	}
}

func TestDecompressUnsupportedExtension(t *testing.T) {
	_, err := Decompress("zip", bytes.NewReader([]byte("data")))
	if err != ErrUnsupportedExtension {
		t.Fatalf("Expected ErrUnsupportedExtension, got %v", err)
	}
}

func TestDecompressCorruptData(t *testing.T) {
	_, err := DecompressBytes([]byte("definitely not gzip"), "gz")
	if err == nil {
		t.Fatal("Expected error for corrupt gzip data")
	}
}
