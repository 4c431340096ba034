package tlshx

import (
	"errors"
	"io"
)

// Segment is the digest of one content-defined region of a stream.
type Segment struct {
	Offset uint64 // Absolute offset in the stream
	Length uint64 // Segment size in bytes
	Digest Digest // Zero when Err is set
	Err    error  // Non-nil (wrapping ErrNoDigest) when the segment could not be summarized
}

// Segments splits the stream read from r into content-defined segments
// (see WithSegmentSizes, WithNormalization and WithSeed) and digests each of
// them separately. Two files that only share a region produce matching
// digests for the segments covering it.
//
// Segments that cannot be summarized are returned with Err set instead of
// failing the whole call; only read errors abort it.
func Segments(r io.Reader, opts ...Option) ([]Segment, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	seg := newSegmenter(cfg)
	b := newBuilderWithConfig(cfg)
	buf := make([]byte, cfg.bufferSize)

	var (
		segments []Segment
		offset   uint64
	)

	flush := func() {
		d, err := b.Build()
		segments = append(segments, Segment{
			Offset: offset,
			Length: b.Len(),
			Digest: d,
			Err:    err,
		})
		offset += b.Len()
		b.Reset()
	}

	for {
		m, rerr := io.ReadFull(r, buf)
		data := buf[:m]

		for len(data) > 0 {
			n, found := seg.next(data)
			b.Update(data[:n])
			data = data[n:]

			if found {
				flush()
			}
		}

		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}

		if rerr != nil {
			return nil, rerr
		}
	}

	if b.Len() > 0 {
		flush()
	}

	return segments, nil
}
