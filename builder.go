package tlshx

// Builder accumulates the sliding-window histogram and rolling checksum of a
// byte stream. Feed it with Update (or Write) and call Build to obtain a Digest.
//
// A Builder is not safe for concurrent use. Separate goroutines should use
// separate builders, or recycle them through a BuilderPool.
type Builder struct {
	// Hot path fields (touched for every byte)
	histogram [numBuckets]uint32    // bucket counters, only ever incremented
	window    [windowSize]byte      // ring of the last 5 bytes
	checksum  [maxChecksumLen]uint8 // rolling checksum, first checksumLen used
	dataLen   uint64                // bytes ingested so far

	// Config fields (read-only after initialization)
	profile     Profile
	checksumLen int
	bufferSize  int

	readBuf []byte // allocated on first ReadFrom, kept across Reset
}

// NewBuilder creates an empty Builder configured with the given options.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return newBuilderWithConfig(cfg), nil
}

func newBuilderWithConfig(cfg *config) *Builder {
	return &Builder{
		profile:     cfg.profile,
		checksumLen: cfg.profile.ChecksumLength,
		bufferSize:  cfg.bufferSize,
	}
}

// BuildFrom is a shorthand for NewBuilder, Update and Build on a single buffer.
func BuildFrom(data []byte, opts ...Option) (Digest, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return Digest{}, err
	}

	b.Update(data)

	return b.Build()
}

// Update adds data to the builder. Splitting a stream across several calls
// produces the same state as a single call with the concatenation.
func (b *Builder) Update(data []byte) {
	if len(data) == 0 {
		return
	}

	// Capture state into local variables
	n := b.dataLen
	j := int(n % windowSize)
	w := &b.window
	hist := &b.histogram

	for _, c := range data {
		w[j] = c

		if n >= windowSize-1 {
			j1 := (j + windowSize - 1) % windowSize
			j2 := (j + windowSize - 2) % windowSize
			j3 := (j + windowSize - 3) % windowSize
			j4 := (j + windowSize - 4) % windowSize

			b.checksum[0] = fastBMapping(checksumSalt, w[j], w[j1], b.checksum[0])
			for k := 1; k < b.checksumLen; k++ {
				b.checksum[k] = bMapping(b.checksum[k-1], w[j], w[j1], b.checksum[k])
			}

			hist[fastBMapping(salt012, w[j], w[j1], w[j2])]++
			hist[fastBMapping(salt013, w[j], w[j1], w[j3])]++
			hist[fastBMapping(salt023, w[j], w[j2], w[j3])]++
			hist[fastBMapping(salt024, w[j], w[j2], w[j4])]++
			hist[fastBMapping(salt014, w[j], w[j1], w[j4])]++
			hist[fastBMapping(salt034, w[j], w[j3], w[j4])]++
		}

		n++
		j++
		if j == windowSize {
			j = 0
		}
	}

	b.dataLen = n
}

// Write implements io.Writer. It never returns an error.
func (b *Builder) Write(p []byte) (int, error) {
	b.Update(p)

	return len(p), nil
}

// Build finalizes the current state into a Digest. It does not modify the
// builder: more data may be added afterwards and Build called again.
//
// The returned error wraps ErrNoDigest when the input is too short, the
// histogram is degenerate, or too few buckets are populated.
func (b *Builder) Build() (Digest, error) {
	if b.dataLen < uint64(b.profile.MinDataLength) {
		return Digest{}, ErrInputTooShort
	}

	q1, q2 := tertiles(&b.histogram, b.profile.Buckets)
	if q2 == 0 {
		return Digest{}, ErrDegenerateHistogram
	}

	codeSize := b.profile.CodeSize()
	coded := codeSize * 5

	nonzero := 0
	for _, v := range b.histogram[:coded] {
		if v > 0 {
			nonzero++
		}
	}

	if nonzero*2 <= coded {
		return Digest{}, ErrSparseHistogram
	}

	d := Digest{
		profile: b.profile.family(),
		lvalue:  lCapture(uint32(b.dataLen)), //nolint:gosec // G115: lengths wrap at 4 GiB
		qRatio:  uint8(uint32(float32(q1*100)/float32(q2)) % 16),
	}

	copy(d.checksum[:], b.checksum[:b.checksumLen])

	for i := range codeSize {
		var h uint8

		pow := uint8(1)
		for _, v := range b.histogram[i*5 : i*5+5] {
			switch {
			case v > q2:
				h += 2 * pow
			case v > q1:
				h += pow
			}

			pow *= 3
		}

		d.code[i] = h
	}

	return d, nil
}

// Reset clears all accumulated state so the builder can process a new stream.
func (b *Builder) Reset() {
	b.histogram = [numBuckets]uint32{}
	b.window = [windowSize]byte{}
	b.checksum = [maxChecksumLen]uint8{}
	b.dataLen = 0
}

// Len returns the number of bytes ingested since creation or the last Reset.
func (b *Builder) Len() uint64 {
	return b.dataLen
}

// Profile returns the profile the builder was configured with.
func (b *Builder) Profile() Profile {
	return b.profile
}
