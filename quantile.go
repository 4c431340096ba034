package tlshx

import "slices"

// tertiles returns the nearest-rank lower and upper tertiles of the first
// n histogram counters.
func tertiles(hist *[numBuckets]uint32, n int) (q1, q2 uint32) {
	var sorted [numBuckets]uint32

	s := sorted[:n]
	copy(s, hist[:n])
	slices.Sort(s)

	// ceil(n/3)-1 and ceil(2n/3)-1
	p1 := (n+2)/3 - 1
	p2 := (2*n+2)/3 - 1

	return s[p1], s[p2]
}
