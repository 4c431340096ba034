package tlshx

// segmenter finds content-defined segment boundaries with a Gear rolling hash
// and normalized chunking, so that an insertion early in a stream only moves
// the boundaries near it.
//
// The search runs in three regions measured from the start of the segment:
//  1. [0, minSize): skipped without hashing
//  2. [minSize, normSize): cut where fp&maskS == 0 (easier to match)
//  3. [normSize, maxSize): cut where fp&maskL == 0
//
// and cuts unconditionally at maxSize.
type segmenter struct {
	table       [256]uint64 // Gear hash lookup table
	fingerprint uint64      // current rolling hash value

	minSize  uint32
	normSize uint32
	maxSize  uint32
	maskS    uint64
	maskL    uint64

	position uint32 // bytes consumed in the current segment
}

func newSegmenter(cfg *config) *segmenter {
	s := &segmenter{
		table:   gearTable(cfg.seed),
		minSize: cfg.segMinSize,
		maxSize: cfg.segMaxSize,
	}
	s.maskS, s.maskL, s.normSize = segmentMasks(cfg)

	return s
}

// segmentMasks derives the two cut masks and the normalization boundary
// normSize = minSize + (targetSize - minSize) / 2^normLevel.
func segmentMasks(cfg *config) (maskS, maskL uint64, normSize uint32) {
	var bits uint8
	for tmp := cfg.segTargetSize; tmp > 1; tmp >>= 1 {
		bits++
	}

	maskL = (uint64(1) << bits) - 1
	if bits > 0 {
		maskS = (uint64(1) << (bits - 1)) - 1
	}

	normSize = cfg.segMinSize + ((cfg.segTargetSize - cfg.segMinSize) >> cfg.normLevel)

	return maskS, maskL, normSize
}

// gearTable fills a Gear table from seed with splitmix64.
func gearTable(seed uint64) [256]uint64 {
	var t [256]uint64

	x := seed
	for i := range t {
		x += 0x9E3779B97F4A7C15
		z := x
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		t[i] = z ^ (z >> 31)
	}

	return t
}

func (s *segmenter) reset() {
	s.fingerprint = 0
	s.position = 0
}

// next scans data for the end of the current segment. It returns the number
// of bytes of data that belong to the segment and whether the segment ended
// inside data. When found is false all of data was consumed and the search
// continues on the next call.
func (s *segmenter) next(data []byte) (n int, found bool) {
	fp := s.fingerprint
	pos := int(s.position)

	for i, c := range data {
		pos++

		if pos <= int(s.minSize) {
			continue
		}

		fp = (fp << 1) + s.table[c]

		mask := s.maskL
		if pos <= int(s.normSize) {
			mask = s.maskS
		}

		if fp&mask == 0 || pos >= int(s.maxSize) {
			s.reset()

			return i + 1, true
		}
	}

	s.fingerprint = fp
	s.position = uint32(pos) //nolint:gosec // G115

	return len(data), false
}
