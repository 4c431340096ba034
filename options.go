package tlshx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDigest is returned by Build when the ingested data cannot be summarized.
	// The more specific build errors below all wrap it.
	ErrNoDigest = errors.New("tlshx: no digest available")

	// ErrInputTooShort is returned when fewer than MinDataLength bytes were ingested.
	ErrInputTooShort = fmt.Errorf("%w: input too short", ErrNoDigest)

	// ErrDegenerateHistogram is returned when the upper tertile of the histogram is zero.
	ErrDegenerateHistogram = fmt.Errorf("%w: degenerate histogram", ErrNoDigest)

	// ErrSparseHistogram is returned when half or fewer of the coded buckets are populated.
	ErrSparseHistogram = fmt.Errorf("%w: histogram too sparse", ErrNoDigest)

	// ErrInvalidHash is returned when a textual digest cannot be parsed.
	ErrInvalidHash = errors.New("tlshx: invalid hash")

	// ErrInvalidBuckets is returned when the effective bucket count is not 128 or 256.
	ErrInvalidBuckets = errors.New("buckets must be 128 or 256")

	// ErrInvalidChecksumLength is returned when the checksum length is not 1 or 3.
	ErrInvalidChecksumLength = errors.New("checksumLength must be 1 or 3")

	// ErrInvalidMinDataLength is returned when minDataLength is 0.
	ErrInvalidMinDataLength = errors.New("minDataLength must be greater than 0")

	// ErrInvalidBufferSize is returned when bufferSize is 0.
	ErrInvalidBufferSize = errors.New("bufferSize must be greater than 0")

	// ErrInvalidSegmentSize is returned when a segment size is 0.
	ErrInvalidSegmentSize = errors.New("segment sizes must be greater than 0")

	// ErrSegmentSizeOrder is returned when the segment sizes are not strictly increasing.
	ErrSegmentSizeOrder = errors.New("segment sizes must satisfy min < target < max")

	// ErrInvalidNormLevel is returned when normLevel is not between 0 and 8.
	ErrInvalidNormLevel = errors.New("normLevel must be between 0 and 8")
)

const (
	// DefaultMinDataLength is the smallest input, in bytes, that can be summarized.
	DefaultMinDataLength = 50

	// DefaultBufferSize is the read buffer size used by FromReader and Segments (64 KiB).
	DefaultBufferSize = 64 * 1024

	// DefaultSegmentMinSize is the default minimum segment size (4 KiB).
	DefaultSegmentMinSize = 4 * 1024

	// DefaultSegmentTargetSize is the default target segment size (16 KiB).
	DefaultSegmentTargetSize = 16 * 1024

	// DefaultSegmentMaxSize is the default maximum segment size (64 KiB).
	DefaultSegmentMaxSize = 64 * 1024

	// DefaultNormLevel is the default normalization level for segmentation.
	DefaultNormLevel = 2
)

// Option is a function that configures a Builder, a BuilderPool or a segmentation run.
type Option func(*config) error

// config holds the configuration shared by every entry point.
type config struct {
	profile Profile

	bufferSize int

	segMinSize    uint32
	segTargetSize uint32
	segMaxSize    uint32
	normLevel     uint8
	seed          uint64
}

func defaultConfig() *config {
	return &config{
		profile:       Profile128x1,
		bufferSize:    DefaultBufferSize,
		segMinSize:    DefaultSegmentMinSize,
		segTargetSize: DefaultSegmentTargetSize,
		segMaxSize:    DefaultSegmentMaxSize,
		normLevel:     DefaultNormLevel,
	}
}

// newConfig applies opts on top of the defaults and validates the result.
func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that the configuration is valid.
func (c *config) validate() error {
	if err := c.profile.validate(); err != nil {
		return err
	}

	if c.bufferSize <= 0 {
		return ErrInvalidBufferSize
	}

	if c.segMinSize == 0 || c.segTargetSize == 0 || c.segMaxSize == 0 {
		return ErrInvalidSegmentSize
	}

	if c.segTargetSize <= c.segMinSize || c.segMaxSize <= c.segTargetSize {
		return fmt.Errorf("%w: min (%d), target (%d), max (%d)",
			ErrSegmentSizeOrder, c.segMinSize, c.segTargetSize, c.segMaxSize)
	}

	if c.normLevel > 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidNormLevel, c.normLevel)
	}

	return nil
}

// WithProfile selects one of the predefined digest profiles.
func WithProfile(p Profile) Option {
	return func(c *config) error {
		if err := p.validate(); err != nil {
			return err
		}

		c.profile = p

		return nil
	}
}

// WithBuckets sets the effective bucket count (128 or 256).
func WithBuckets(n int) Option {
	return func(c *config) error {
		if n != 128 && n != 256 {
			return fmt.Errorf("%w: got %d", ErrInvalidBuckets, n)
		}

		c.profile.Buckets = n

		return nil
	}
}

// WithChecksumLength sets the number of checksum bytes (1 or 3).
func WithChecksumLength(n int) Option {
	return func(c *config) error {
		if n != 1 && n != 3 {
			return fmt.Errorf("%w: got %d", ErrInvalidChecksumLength, n)
		}

		c.profile.ChecksumLength = n

		return nil
	}
}

// WithMinDataLength overrides the minimum number of bytes required by Build.
func WithMinDataLength(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidMinDataLength
		}

		c.profile.MinDataLength = n

		return nil
	}
}

// WithBufferSize sets the read buffer size used by FromReader, Segments and
// Builder.ReadFrom.
func WithBufferSize(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return ErrInvalidBufferSize
		}

		c.bufferSize = size

		return nil
	}
}

// WithSegmentSizes sets the minimum, target and maximum segment sizes used by Segments.
func WithSegmentSizes(minSize, targetSize, maxSize uint32) Option {
	return func(c *config) error {
		if minSize == 0 || targetSize == 0 || maxSize == 0 {
			return ErrInvalidSegmentSize
		}

		c.segMinSize = minSize
		c.segTargetSize = targetSize
		c.segMaxSize = maxSize

		return nil
	}
}

// WithNormalization sets the segmentation normalization level.
// Level 0 disables normalization (single-mask behavior).
func WithNormalization(level uint8) Option {
	return func(c *config) error {
		if level > 8 {
			return fmt.Errorf("%w: got %d", ErrInvalidNormLevel, level)
		}

		c.normLevel = level

		return nil
	}
}

// WithSeed sets a custom seed for the segmentation Gear table.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.seed = seed

		return nil
	}
}
