package tlshx

import "math"

const (
	log1_5 = 0.4054651
	log1_3 = 0.26236426
	log1_1 = 0.095310180
)

// lCapture maps an input length to its 8-bit logarithmic length class.
// Classes grow by a factor of 1.5 up to 656 bytes, 1.3 up to 3199 bytes and
// 1.1 beyond that. The length goes through float32 first; class boundaries
// of existing TLSH digests depend on it. Callers pass the length truncated
// to 32 bits, so classes repeat past 4 GiB.
func lCapture(n uint32) uint8 {
	if n == 0 {
		return 0
	}

	l := math.Log(float64(float32(n)))

	var i int

	switch {
	case n <= 656:
		i = int(math.Floor(l / log1_5))
	case n <= 3199:
		i = int(math.Floor(l/log1_3 - 8.72777))
	default:
		i = int(math.Floor(l/log1_1 - 62.5472))
	}

	return uint8(i & 0xFF)
}
