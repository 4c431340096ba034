// Package tlshx computes TLSHX digests: locality-sensitive fuzzy hashes of
// byte streams in the TLSH family, with the histogram quantized into ternary
// digits.
//
// # Overview
//
// Similar inputs produce digests that are close under Diff, dissimilar inputs
// produce digests that are far apart. This is not a cryptographic hash:
// collisions between similar inputs are the point. Typical uses are
// near-duplicate detection, similarity clustering and malware family triage.
//
// This implementation offers:
//   - Byte-for-byte compatible "TX..." digests
//   - Allocation-free ingestion, finalization and comparison
//   - Several profiles (128 or 256 buckets, 1 or 3 checksum bytes)
//   - Streaming from io.Reader and piecewise (per segment) digests
//
// # Quick Start
//
// One-shot:
//
//	d, err := tlshx.BuildFrom(data)
//	if errors.Is(err, tlshx.ErrNoDigest) {
//	    // input too short or too uniform to summarize
//	}
//	fmt.Println(d) // TX2D9020092B...
//
// Incremental:
//
//	b, _ := tlshx.NewBuilder(tlshx.WithProfile(tlshx.Profile128x3))
//	b.Update(part1)
//	b.Update(part2)
//	d, err := b.Build()
//
// Comparison:
//
//	other, err := tlshx.Parse("TX9CC0C05C5F...")
//	dist := d.Diff(other, true)
//
// # Algorithm
//
// Every input byte after the fourth updates a 5-byte sliding window. Six
// byte triples taken from the window are mapped through a salted Pearson
// table to histogram buckets, and a rolling checksum is chained through the
// same table. At Build time the lower and upper tertiles of the bucket counts
// quantize each bucket to 0, 1 or 2; five buckets pack into one code byte
// (values 0..242). The digest also records a logarithmic length class and the
// ratio of the two tertiles.
//
// Build refuses to produce a digest (returning an error wrapping ErrNoDigest)
// when the input is shorter than the profile minimum, when the upper tertile
// is zero, or when half or fewer of the coded buckets are populated.
//
// # Distance
//
// Diff adds up a length term (optional), a tertile-ratio term, one point for
// a checksum mismatch and the summed ternary digit differences of the codes.
// Identical digests have distance 0.
//
// # Thread Safety
//
// A Builder must be owned by one goroutine at a time. Digest is an immutable
// value and may be shared freely. Use BuilderPool to recycle builders in
// high-throughput code.
package tlshx
