package tlshx

import (
	"errors"
	"io"
)

// FromReader digests everything read from r until io.EOF.
//
// Data is pulled through an internal buffer of WithBufferSize bytes. Read
// errors other than io.EOF are returned as is; otherwise the result is the
// same as BuildFrom on the full contents of r.
func FromReader(r io.Reader, opts ...Option) (Digest, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Digest{}, err
	}

	b := newBuilderWithConfig(cfg)

	if err := b.readFrom(r, b.readBuffer()); err != nil {
		return Digest{}, err
	}

	return b.Build()
}

// ReadFrom implements io.ReaderFrom, feeding the builder until io.EOF.
// The read buffer is allocated once and reused by later calls, including
// calls after Reset or on builders recycled through a BuilderPool.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	start := b.dataLen
	err := b.readFrom(r, b.readBuffer())

	return int64(b.dataLen - start), err //nolint:gosec // G115
}

func (b *Builder) readBuffer() []byte {
	if b.readBuf == nil {
		b.readBuf = make([]byte, b.bufferSize)
	}

	return b.readBuf
}

func (b *Builder) readFrom(r io.Reader, buf []byte) error {
	for {
		n, err := io.ReadFull(r, buf)
		b.Update(buf[:n])

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}

		if err != nil {
			return err
		}
	}
}
