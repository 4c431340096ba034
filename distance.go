package tlshx

const (
	lengthMult  = 12
	qRatioMult  = 12
	rangeLValue = 256
	rangeQRatio = 16
)

// codeDistance[a][b] is the summed absolute difference of the five ternary
// digits packed into code bytes a and b.
var codeDistance = func() (t [maxCode + 1][maxCode + 1]uint8) {
	for a := range maxCode + 1 {
		for b := range maxCode + 1 {
			x, y := a, b

			var d int
			for range 5 {
				dx := x%3 - y%3
				if dx < 0 {
					dx = -dx
				}

				d += dx
				x /= 3
				y /= 3
			}

			t[a][b] = uint8(d)
		}
	}

	return t
}()

// modDiff returns the distance between x and y on a ring of size r.
func modDiff(x, y uint8, r int) int {
	var dl, dr int
	if y > x {
		dl = int(y) - int(x)
		dr = int(x) + r - int(y)
	} else {
		dl = int(x) - int(y)
		dr = int(y) + r - int(x)
	}

	return min(dl, dr)
}

// Diff returns the distance between d and other. A distance of 0 means the
// digests are identical; larger values mean less similar inputs. There is no
// fixed upper bound.
//
// includeLength adds a term for the difference in input length. Leave it out
// when padding (for example a large run of appended zero bytes) should not
// count as a difference.
//
// Both digests must share a profile family; otherwise Diff compares only the
// fields the two layouts have in common and the result is not meaningful.
func (d Digest) Diff(other Digest, includeLength bool) int {
	var diff int

	if includeLength {
		switch ldiff := modDiff(d.lvalue, other.lvalue, rangeLValue); ldiff {
		case 0, 1:
			diff = ldiff
		default:
			diff = ldiff * lengthMult
		}
	}

	if qdiff := modDiff(d.qRatio, other.qRatio, rangeQRatio); qdiff <= 1 {
		diff += qdiff
	} else {
		diff += (qdiff - 1) * qRatioMult
	}

	checksumLen := min(d.profile.ChecksumLength, other.profile.ChecksumLength)
	for k := range checksumLen {
		if d.checksum[k] != other.checksum[k] {
			diff++

			break
		}
	}

	codeSize := min(d.profile.CodeSize(), other.profile.CodeSize())
	for i := range codeSize {
		diff += int(codeDistance[d.code[i]][other.code[i]])
	}

	return diff
}

// Similar reports whether the distance between d and other, length included,
// is at most threshold. Digests of different profile families are never similar.
func (d Digest) Similar(other Digest, threshold int) bool {
	if !d.profile.sameFamily(other.profile) {
		return false
	}

	return d.Diff(other, true) <= threshold
}
