package benchmarks

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/chmduquesne/rollinghash/adler32"
	"github.com/chmduquesne/rollinghash/buzhash32"
	"github.com/chmduquesne/rollinghash/rabinkarp64"
	jotfs "github.com/jotfs/fastcdc-go"
	"github.com/kalbasit/tlshx"
	restic "github.com/restic/chunker"
	"go4.org/rollsum"
)

const (
	benchmarkSize   = 10 * 1024 * 1024 // 10 MiB
	targetChunkSize = 64 * 1024        // 64 KiB
	minChunkSize    = 16 * 1024        // 16 KiB
	maxChunkSize    = 256 * 1024       // 256 KiB
	windowBytes     = 64               // rolling hash window
)

func benchmarkData(b *testing.B) []byte {
	b.Helper()

	data := make([]byte, benchmarkSize)
	if _, err := rand.Read(data); err != nil {
		b.Fatal(err)
	}

	return data
}

// Piecewise digesting: each chunker cuts the stream, tlshx digests every chunk.

// BenchmarkPiecewise_Segments benchmarks tlshx.Segments (built-in Gear chunking)
func BenchmarkPiecewise_Segments(b *testing.B) {
	data := benchmarkData(b)

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := tlshx.Segments(
			bytes.NewReader(data),
			tlshx.WithSegmentSizes(minChunkSize, targetChunkSize, maxChunkSize),
		)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPiecewise_Jotfs benchmarks jotfs/fastcdc-go boundaries with a pooled builder
func BenchmarkPiecewise_Jotfs(b *testing.B) {
	data := benchmarkData(b)

	pool, err := tlshx.NewBuilderPool()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		chunker, err := jotfs.NewChunker(
			bytes.NewReader(data),
			jotfs.Options{
				MinSize:     minChunkSize,
				AverageSize: targetChunkSize,
				MaxSize:     maxChunkSize,
			},
		)
		if err != nil {
			b.Fatal(err)
		}

		for {
			chunk, err := chunker.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				b.Fatal(err)
			}

			builder := pool.Get()
			builder.Update(chunk.Data)
			_, _ = builder.Build()
			pool.Put(builder)
		}
	}
}

// BenchmarkPiecewise_Restic benchmarks restic/chunker boundaries with a pooled builder
func BenchmarkPiecewise_Restic(b *testing.B) {
	data := benchmarkData(b)

	// Restic uses a polynomial for initialization
	pol := restic.Pol(0x3DA3358B4DC173)

	pool, err := tlshx.NewBuilderPool()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		chunker := restic.NewWithBoundaries(bytes.NewReader(data), pol, minChunkSize, maxChunkSize)
		buf := make([]byte, maxChunkSize)

		for {
			chunk, err := chunker.Next(buf)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				b.Fatal(err)
			}

			builder := pool.Get()
			builder.Update(chunk.Data)
			_, _ = builder.Build()
			pool.Put(builder)
		}
	}
}

// Raw throughput: the TLSHX window update against plain rolling hashes.

// BenchmarkRolling_TLSHX benchmarks Builder.Update
func BenchmarkRolling_TLSHX(b *testing.B) {
	data := benchmarkData(b)
	builder, _ := tlshx.NewBuilder()

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		builder.Reset()
		builder.Update(data)
	}
}

// BenchmarkRolling_Adler32 benchmarks rollinghash/adler32
func BenchmarkRolling_Adler32(b *testing.B) {
	data := benchmarkData(b)

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		h := adler32.New()
		_, _ = h.Write(data[:windowBytes])

		for _, c := range data[windowBytes:] {
			h.Roll(c)
		}

		_ = h.Sum32()
	}
}

// BenchmarkRolling_Buzhash32 benchmarks rollinghash/buzhash32
func BenchmarkRolling_Buzhash32(b *testing.B) {
	data := benchmarkData(b)

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		h := buzhash32.New()
		_, _ = h.Write(data[:windowBytes])

		for _, c := range data[windowBytes:] {
			h.Roll(c)
		}

		_ = h.Sum32()
	}
}

// BenchmarkRolling_RabinKarp64 benchmarks rollinghash/rabinkarp64
func BenchmarkRolling_RabinKarp64(b *testing.B) {
	data := benchmarkData(b)

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		h := rabinkarp64.New()
		_, _ = h.Write(data[:windowBytes])

		for _, c := range data[windowBytes:] {
			h.Roll(c)
		}

		_ = h.Sum64()
	}
}

// BenchmarkRolling_Rollsum benchmarks go4.org/rollsum
func BenchmarkRolling_Rollsum(b *testing.B) {
	data := benchmarkData(b)

	b.SetBytes(benchmarkSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rs := rollsum.New()

		for _, c := range data {
			rs.Roll(c)
		}

		_ = rs.Digest()
	}
}
