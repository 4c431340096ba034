package tlshx_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"sync"
	"testing"

	"github.com/kalbasit/tlshx"
)

var (
	loremShort = []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit")
	loremLong  = []byte("Duis aute irure dolor in reprehenderit in voluptate velit " +
		"esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat " +
		"cupidatat non proident, sunt in culpa qui officia")
	loremExtended = []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor")
)

const loremShortHash = "TX2D9020092BA51B3F04A30015330A5200EC7F6C295154092A540057DC005A011B360001"

func randomData(t testing.TB, n int) []byte {
	t.Helper()

	data := make([]byte, n)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	return data
}

// TestBuildKnownVectors checks digests against published and recorded values.
func TestBuildKnownVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		profile tlshx.Profile
		want    string
	}{
		{
			name:    "lorem short 128x1",
			data:    loremShort,
			profile: tlshx.Profile128x1,
			want:    loremShortHash,
		},
		{
			name:    "lorem long 128x1",
			data:    loremLong,
			profile: tlshx.Profile128x1,
			want:    "TX9CC0C05C5F1752EBEE6FC80D12116501DC0308D393120A03717972A78A733F7E15E375",
		},
		{
			name:    "lorem short 128x3",
			data:    loremShort,
			profile: tlshx.Profile128x3,
			want:    "TX2DCF339020092BA51B3F04A30015330A5200EC7F6C295154092A540057DC005A011B360001",
		},
		{
			name:    "lorem short 256x1",
			data:    loremShort,
			profile: tlshx.Profile256x1,
			want: "TX2D902051A21B0100455458488D0F36006C0303035A1B" +
				"092BA51B3F04A30015330A5200EC7F6C295154092A540057DC005A011B360001",
		},
		{
			name:    "lorem long 256x3",
			data:    loremLong,
			profile: tlshx.Profile256x3,
			want: "TX9C3081C0C06D1217C222521B09181E0C20E73A93333800395C" +
				"5F1752EBEE6FC80D12116501DC0308D393120A03717972A78A733F7E15E375",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := tlshx.BuildFrom(tt.data, tlshx.WithProfile(tt.profile))
			if err != nil {
				t.Fatalf("BuildFrom() error = %v", err)
			}

			if got := d.Hash(); got != tt.want {
				t.Errorf("Hash() = %s, want %s", got, tt.want)
			}

			if len(d.Hash()) != tt.profile.HashLength() {
				t.Errorf("Hash() length = %d, want %d", len(d.Hash()), tt.profile.HashLength())
			}
		})
	}
}

// TestBuildDeterminism verifies that the same input produces the same digest.
func TestBuildDeterminism(t *testing.T) {
	t.Parallel()

	data := randomData(t, 64*1024)

	d1, err := tlshx.BuildFrom(data)
	if err != nil {
		t.Fatal(err)
	}

	d2, err := tlshx.BuildFrom(data)
	if err != nil {
		t.Fatal(err)
	}

	if d1 != d2 {
		t.Errorf("Digest mismatch: %s vs %s", d1, d2)
	}
}

// TestUpdateChunkInvariance verifies that every split of the input yields the same digest.
func TestUpdateChunkInvariance(t *testing.T) {
	t.Parallel()

	for _, profile := range tlshx.Profiles() {
		t.Run(profile.Name(), func(t *testing.T) {
			t.Parallel()

			want, err := tlshx.BuildFrom(loremLong, tlshx.WithProfile(profile))
			if err != nil {
				t.Fatal(err)
			}

			for split := 0; split <= len(loremLong); split++ {
				b, err := tlshx.NewBuilder(tlshx.WithProfile(profile))
				if err != nil {
					t.Fatal(err)
				}

				b.Update(loremLong[:split])
				b.Update(nil)
				b.Update(loremLong[split:])

				got, err := b.Build()
				if err != nil {
					t.Fatalf("split %d: %v", split, err)
				}

				if got != want {
					t.Errorf("split %d: got %s, want %s", split, got, want)
				}
			}
		})
	}
}

// TestUpdateByteAtATime feeds one byte per call.
func TestUpdateByteAtATime(t *testing.T) {
	t.Parallel()

	b, err := tlshx.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}

	for i := range loremShort {
		b.Update(loremShort[i : i+1])
	}

	d, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if d.Hash() != loremShortHash {
		t.Errorf("Hash() = %s, want %s", d.Hash(), loremShortHash)
	}

	if b.Len() != uint64(len(loremShort)) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(loremShort))
	}
}

// TestBuildIsRepeatable verifies that Build does not mutate the builder.
func TestBuildIsRepeatable(t *testing.T) {
	t.Parallel()

	b, err := tlshx.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}

	b.Update(loremShort[:20])

	if _, err := b.Build(); !errors.Is(err, tlshx.ErrInputTooShort) {
		t.Fatalf("Build() error = %v, want ErrInputTooShort", err)
	}

	b.Update(loremShort[20:])

	d1, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	d2, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if d1 != d2 || d1.Hash() != loremShortHash {
		t.Errorf("repeated Build() = %s, %s; want %s", d1, d2, loremShortHash)
	}
}

// TestBuildRejections covers every "no digest" outcome.
func TestBuildRejections(t *testing.T) {
	t.Parallel()

	repeating := make([]byte, 10000)
	for i := range repeating {
		repeating[i] = byte(i % 21)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "empty",
			data: nil,
			want: tlshx.ErrInputTooShort,
		},
		{
			name: "one byte short",
			data: loremShort[:tlshx.DefaultMinDataLength-1],
			want: tlshx.ErrInputTooShort,
		},
		{
			name: "constant zero bytes",
			data: make([]byte, 10000),
			want: tlshx.ErrDegenerateHistogram,
		},
		{
			name: "short repeating pattern",
			data: repeating,
			want: tlshx.ErrSparseHistogram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := tlshx.BuildFrom(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("BuildFrom() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, tlshx.ErrNoDigest) {
				t.Errorf("BuildFrom() error = %v does not wrap ErrNoDigest", err)
			}

			if errors.Is(err, tlshx.ErrInvalidHash) {
				t.Error("build failure must not look like a parse failure")
			}

			if !d.IsZero() {
				t.Errorf("BuildFrom() returned a digest alongside an error: %s", d)
			}
		})
	}
}

// TestMinDataLength verifies the configurable length threshold.
func TestMinDataLength(t *testing.T) {
	t.Parallel()

	if _, err := tlshx.BuildFrom(loremShort, tlshx.WithMinDataLength(256)); !errors.Is(err, tlshx.ErrInputTooShort) {
		t.Errorf("BuildFrom() error = %v, want ErrInputTooShort", err)
	}

	d, err := tlshx.BuildFrom(loremShort, tlshx.WithMinDataLength(len(loremShort)))
	if err != nil {
		t.Fatal(err)
	}

	if d.Hash() != loremShortHash {
		t.Errorf("Hash() = %s, want %s", d.Hash(), loremShortHash)
	}
}

// TestBuilderWriter verifies the io.Writer and io.ReaderFrom implementations.
func TestBuilderWriter(t *testing.T) {
	t.Parallel()

	data := randomData(t, 300*1024)

	want, err := tlshx.BuildFrom(data)
	if err != nil {
		t.Fatal(err)
	}

	b, err := tlshx.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}

	n, err := b.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if n != int64(len(data)) {
		t.Errorf("ReadFrom() = %d, want %d", n, len(data))
	}

	got, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Errorf("ReadFrom digest = %s, want %s", got, want)
	}

	b.Reset()

	if _, err := b.Write(data); err != nil {
		t.Fatal(err)
	}

	if got, _ := b.Build(); got != want {
		t.Errorf("Write digest = %s, want %s", got, want)
	}
}

// TestBuilderReset verifies that Reset() clears all state.
func TestBuilderReset(t *testing.T) {
	t.Parallel()

	b, err := tlshx.NewBuilder()
	if err != nil {
		t.Fatal(err)
	}

	b.Update(randomData(t, 4096))
	b.Reset()

	if b.Len() != 0 {
		t.Errorf("Len() after Reset() = %d, want 0", b.Len())
	}

	b.Update(loremShort)

	d, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if d.Hash() != loremShortHash {
		t.Errorf("Hash() after Reset() = %s, want %s", d.Hash(), loremShortHash)
	}
}

// TestBuilderThreadSafety tests concurrent usage of separate builders.
func TestBuilderThreadSafety(t *testing.T) {
	t.Parallel()

	data := randomData(t, 256*1024)

	want, err := tlshx.BuildFrom(data)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	const workers = 10

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			b, err := tlshx.NewBuilder()
			if err != nil {
				t.Error(err)

				return
			}

			for off := 0; off < len(data); off += 1000 {
				b.Update(data[off:min(off+1000, len(data))])
			}

			got, err := b.Build()
			if err != nil {
				t.Error(err)

				return
			}

			if got != want {
				t.Errorf("Digest mismatch: %s vs %s", got, want)
			}

			if got.Diff(want, true) != 0 {
				t.Errorf("Diff() of equal digests = %d", got.Diff(want, true))
			}
		}()
	}

	wg.Wait()
}

// TestOptionsValidation tests option validation.
func TestOptionsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []tlshx.Option
		wantErr error
	}{
		{
			name: "valid default",
			opts: []tlshx.Option{},
		},
		{
			name: "valid custom",
			opts: []tlshx.Option{
				tlshx.WithBuckets(256),
				tlshx.WithChecksumLength(3),
				tlshx.WithMinDataLength(512),
			},
		},
		{
			name:    "buckets 48",
			opts:    []tlshx.Option{tlshx.WithBuckets(48)},
			wantErr: tlshx.ErrInvalidBuckets,
		},
		{
			name:    "checksum 2",
			opts:    []tlshx.Option{tlshx.WithChecksumLength(2)},
			wantErr: tlshx.ErrInvalidChecksumLength,
		},
		{
			name:    "zero min data length",
			opts:    []tlshx.Option{tlshx.WithMinDataLength(0)},
			wantErr: tlshx.ErrInvalidMinDataLength,
		},
		{
			name:    "invalid profile",
			opts:    []tlshx.Option{tlshx.WithProfile(tlshx.Profile{Buckets: 64, ChecksumLength: 1, MinDataLength: 50})},
			wantErr: tlshx.ErrInvalidBuckets,
		},
		{
			name:    "zero buffer",
			opts:    []tlshx.Option{tlshx.WithBufferSize(0)},
			wantErr: tlshx.ErrInvalidBufferSize,
		},
		{
			name:    "segment min >= target",
			opts:    []tlshx.Option{tlshx.WithSegmentSizes(1024, 1024, 4096)},
			wantErr: tlshx.ErrSegmentSizeOrder,
		},
		{
			name:    "zero segment size",
			opts:    []tlshx.Option{tlshx.WithSegmentSizes(0, 1024, 4096)},
			wantErr: tlshx.ErrInvalidSegmentSize,
		},
		{
			name:    "norm level 9",
			opts:    []tlshx.Option{tlshx.WithNormalization(9)},
			wantErr: tlshx.ErrInvalidNormLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tlshx.NewBuilder(tt.opts...)
			if tt.wantErr == nil && err != nil {
				t.Errorf("NewBuilder() error = %v, want nil", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuilder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
