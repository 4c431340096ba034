package tlshx

import "fmt"

const (
	// hashTag prefixes every textual digest.
	hashTag = "TX"

	// maxCode is the largest code byte, five ternary digits of value 2.
	maxCode = 242
)

// Digest is an immutable TLSHX digest. It is a comparable value: two digests
// are equal exactly when all of their fields, and therefore their textual
// forms, are equal.
type Digest struct {
	profile  Profile
	lvalue   uint8
	qRatio   uint8
	checksum [maxChecksumLen]uint8
	code     [maxCodeSize]uint8
}

// Profile returns the profile the digest was built or parsed under. Its
// MinDataLength is always DefaultMinDataLength since it plays no part in the
// digest itself.
func (d Digest) Profile() Profile {
	return d.profile
}

// LValue returns the logarithmic length class of the input.
func (d Digest) LValue() uint8 {
	return d.lvalue
}

// QRatio returns the 4-bit ratio between the two histogram tertiles.
func (d Digest) QRatio() uint8 {
	return d.qRatio
}

// Checksum returns a copy of the checksum bytes.
func (d Digest) Checksum() []byte {
	return append([]byte(nil), d.checksum[:d.profile.ChecksumLength]...)
}

// Code returns a copy of the packed code bytes in storage order.
func (d Digest) Code() []byte {
	return append([]byte(nil), d.code[:d.profile.CodeSize()]...)
}

// IsZero reports whether d is the zero Digest, as returned alongside errors.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// AppendHash appends the textual form of d to dst and returns the extended buffer.
func (d Digest) AppendHash(dst []byte) []byte {
	dst = append(dst, hashTag...)

	for _, c := range d.checksum[:d.profile.ChecksumLength] {
		dst = appendHex(dst, swapNibbles(c))
	}

	dst = appendHex(dst, swapNibbles(d.lvalue))
	dst = appendHex(dst, d.qRatio<<4)

	for i := d.profile.CodeSize() - 1; i >= 0; i-- {
		dst = appendHex(dst, d.code[i])
	}

	return dst
}

// Hash returns the textual form of d, "TX" followed by uppercase hex.
// Strip the first two characters for the legacy form without the tag.
func (d Digest) Hash() string {
	if d.IsZero() {
		return ""
	}

	var buf [hashPrefixLen + 2*maxChecksumLen + 4 + 2*maxCodeSize]byte

	return string(d.AppendHash(buf[:0]))
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return d.Hash()
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: zero digest", ErrInvalidHash)
	}

	return d.AppendHash(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The profile is inferred
// from the text length.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Parse decodes a textual digest, choosing the predefined profile whose
// digest length matches len(s).
func Parse(s string) (Digest, error) {
	p, ok := profileForLength(len(s))
	if !ok {
		return Digest{}, fmt.Errorf("%w: unexpected length %d", ErrInvalidHash, len(s))
	}

	return ParseProfile(s, p)
}

// ParseProfile decodes a textual digest that must belong to profile p.
func ParseProfile(s string, p Profile) (Digest, error) {
	if err := p.validate(); err != nil {
		return Digest{}, err
	}

	if len(s) != p.HashLength() {
		return Digest{}, fmt.Errorf("%w: length %d, want %d for profile %s",
			ErrInvalidHash, len(s), p.HashLength(), p)
	}

	if s[:hashPrefixLen] != hashTag {
		return Digest{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidHash, hashTag)
	}

	d := Digest{profile: p.family()}
	i := hashPrefixLen

	next := func() (byte, error) {
		b, ok := decodeHexByte(s, i)
		if !ok {
			return 0, fmt.Errorf("%w: invalid hex at offset %d", ErrInvalidHash, i)
		}

		i += 2

		return b, nil
	}

	for k := range p.ChecksumLength {
		b, err := next()
		if err != nil {
			return Digest{}, err
		}

		d.checksum[k] = swapNibbles(b)
	}

	b, err := next()
	if err != nil {
		return Digest{}, err
	}

	d.lvalue = swapNibbles(b)

	if b, err = next(); err != nil {
		return Digest{}, err
	}

	d.qRatio = b >> 4

	for k := p.CodeSize() - 1; k >= 0; k-- {
		if b, err = next(); err != nil {
			return Digest{}, err
		}

		if b > maxCode {
			return Digest{}, fmt.Errorf("%w: code byte 0x%02X out of range", ErrInvalidHash, b)
		}

		d.code[k] = b
	}

	return d, nil
}
