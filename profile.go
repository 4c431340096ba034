package tlshx

import "fmt"

const (
	numBuckets     = 256 // histogram width, always the full table
	maxChecksumLen = 3
	maxCodeSize    = 51
	windowSize     = 5
	hashPrefixLen  = 2
)

// Profile describes one digest family: its bucket count, checksum width and
// the minimum input it accepts. Two digests can only be compared or parsed
// against each other when they share the Buckets and ChecksumLength values.
type Profile struct {
	Buckets        int // effective buckets, 128 or 256
	ChecksumLength int // checksum bytes, 1 or 3
	MinDataLength  int // smallest accepted input in bytes
}

var (
	// Profile128x1 is the default profile: 128 buckets, 1 checksum byte, 72 character digests.
	Profile128x1 = Profile{Buckets: 128, ChecksumLength: 1, MinDataLength: DefaultMinDataLength}

	// Profile128x3 uses 128 buckets and 3 checksum bytes, 76 character digests.
	Profile128x3 = Profile{Buckets: 128, ChecksumLength: 3, MinDataLength: DefaultMinDataLength}

	// Profile256x1 uses 256 buckets and 1 checksum byte, 110 character digests.
	Profile256x1 = Profile{Buckets: 256, ChecksumLength: 1, MinDataLength: DefaultMinDataLength}

	// Profile256x3 uses 256 buckets and 3 checksum bytes, 114 character digests.
	Profile256x3 = Profile{Buckets: 256, ChecksumLength: 3, MinDataLength: DefaultMinDataLength}
)

// Profiles lists the predefined profiles, default first.
func Profiles() []Profile {
	return []Profile{Profile128x1, Profile128x3, Profile256x1, Profile256x3}
}

// CodeSize returns the number of packed code bytes, each holding 5 ternary digits.
func (p Profile) CodeSize() int {
	if p.Buckets == 256 {
		return 51
	}

	return 32
}

// HashLength returns the length of the textual digest, including the "TX" prefix.
func (p Profile) HashLength() int {
	return hashPrefixLen + 2*p.ChecksumLength + 4 + 2*p.CodeSize()
}

// Name returns a short identifier such as "128x1".
func (p Profile) Name() string {
	return fmt.Sprintf("%dx%d", p.Buckets, p.ChecksumLength)
}

// String implements fmt.Stringer.
func (p Profile) String() string {
	return p.Name()
}

// family drops builder-only settings, leaving the fields that determine the
// digest layout.
func (p Profile) family() Profile {
	return Profile{Buckets: p.Buckets, ChecksumLength: p.ChecksumLength, MinDataLength: DefaultMinDataLength}
}

// sameFamily reports whether digests of p and o share a layout.
func (p Profile) sameFamily(o Profile) bool {
	return p.Buckets == o.Buckets && p.ChecksumLength == o.ChecksumLength
}

func (p Profile) validate() error {
	if p.Buckets != 128 && p.Buckets != 256 {
		return fmt.Errorf("%w: got %d", ErrInvalidBuckets, p.Buckets)
	}

	if p.ChecksumLength != 1 && p.ChecksumLength != 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidChecksumLength, p.ChecksumLength)
	}

	if p.MinDataLength <= 0 {
		return ErrInvalidMinDataLength
	}

	return nil
}

// ProfileByName returns the predefined profile named like "128x1".
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Name() == name {
			return p, true
		}
	}

	return Profile{}, false
}

// profileForLength returns the predefined profile producing digests of length n.
func profileForLength(n int) (Profile, bool) {
	for _, p := range Profiles() {
		if p.HashLength() == n {
			return p, true
		}
	}

	return Profile{}, false
}
