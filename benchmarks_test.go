package staticcompress

import (
	"bytes"
	"fmt"
	"testing"
)

// Benchmark data generators
func generateTestData(size int) []byte {
	// Generate semi-compressible data (mix of patterns and random)
	data := make([]byte, size)
	for i := range data {
		if i%4 == 0 {
			data[i] = byte(i % 256)
		} else {
			data[i] = byte(i % 64)
		}
	}
	return data
}

func generateHighlyCompressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("The quick brown fox jumps over the lazy dog. ")
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}
	return data
}

func generateIncompressibleData(size int) []byte {
	data := make([]byte, size)
	seed := uint64(12345)
	for i := range data {
		seed = seed*1103515245 + 12345
		data[i] = byte(seed >> 16)
	}
	return data
}

func benchmarkCompress(b *testing.B, method string, data []byte) {
	c, err := NewCompressor(method)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := c.Compress(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDecompress(b *testing.B, method string, data []byte) {
	c, err := NewCompressor(method)
	if err != nil {
		b.Fatal(err)
	}
	compressed, err := c.Compress(bytes.NewReader(data))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := DecompressBytes(compressed, c.Extension()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompress(b *testing.B) {
	sizes := []int{4 * 1024, 256 * 1024, 1024 * 1024}
	for _, method := range Methods() {
		for _, size := range sizes {
			data := generateTestData(size)
			b.Run(fmt.Sprintf("%s/%dKB", method, size/1024), func(b *testing.B) {
				benchmarkCompress(b, method, data)
			})
		}
	}
}

func BenchmarkDecompress(b *testing.B) {
	data := generateTestData(256 * 1024)
	for _, method := range Methods() {
		b.Run(method, func(b *testing.B) {
			benchmarkDecompress(b, method, data)
		})
	}
}

// Highly compressible data
func BenchmarkZstdHighlyCompressible1MB(b *testing.B) {
	benchmarkCompress(b, "zst", generateHighlyCompressibleData(1024*1024))
}

func BenchmarkBrotliHighlyCompressible1MB(b *testing.B) {
	benchmarkCompress(b, "br", generateHighlyCompressibleData(1024*1024))
}

// Incompressible data
func BenchmarkZstdIncompressible1MB(b *testing.B) {
	benchmarkCompress(b, "zst", generateIncompressibleData(1024*1024))
}

func BenchmarkGzipIncompressible1MB(b *testing.B) {
	benchmarkCompress(b, "gz", generateIncompressibleData(1024*1024))
}

// Benchmark a full run over many files, then a run with nothing to do
func benchmarkPostProcess(b *testing.B, files int, fresh bool) {
	data := generateHighlyCompressibleData(64 * 1024)
	recs := make([]Record, files)
	for i := range recs {
		name := fmt.Sprintf("static/file%03d.js", i)
		recs[i] = Record{Name: name, Path: name}
	}

	setup := func() *Store {
		mfs := NewMemFS()
		mfs.Mkdir("static", 0755)
		for _, r := range recs {
			mfs.WriteFile(r.Path, data)
		}
		store, err := New(NewFilerStorage(mfs), &Config{
			Extensions:   []string{"js"},
			Methods:      []string{"gz+zlib", "zst"},
			KeepOriginal: true,
			MinSizeKB:    1,
		})
		if err != nil {
			b.Fatal(err)
		}
		return store
	}

	store := setup()
	if fresh {
		for range store.PostProcess(recs, false) {
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !fresh {
			b.StopTimer()
			store = setup()
			b.StartTimer()
		}
		for _, err := range store.PostProcess(recs, false) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkPostProcess50Files(b *testing.B)      { benchmarkPostProcess(b, 50, false) }
func BenchmarkPostProcess50FilesFresh(b *testing.B) { benchmarkPostProcess(b, 50, true) }
