// Package index keeps named TLSHX digests in memory and answers
// near-duplicate queries over them.
package index

import (
	"cmp"
	"errors"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/kalbasit/tlshx"
)

// ErrZeroDigest is returned by Add for a digest that was never built.
var ErrZeroDigest = errors.New("index: zero digest")

// Match is one indexed digest within the requested distance of a query.
type Match struct {
	Name     string
	Digest   tlshx.Digest
	Distance int
}

// Pair is two indexed digests within the requested distance of each other.
// A sorts before B.
type Pair struct {
	A, B     string
	Distance int
}

// Index is a concurrent name to digest map. Add may be called from many
// goroutines at once, for example by parallel file hashers.
type Index struct {
	m *xsync.MapOf[string, tlshx.Digest]
}

// New returns an empty Index.
func New() *Index {
	return &Index{m: xsync.NewMapOf[string, tlshx.Digest]()}
}

// Add stores d under name, replacing any previous digest for it.
func (x *Index) Add(name string, d tlshx.Digest) error {
	if d.IsZero() {
		return ErrZeroDigest
	}

	x.m.Store(name, d)

	return nil
}

// Get returns the digest stored under name.
func (x *Index) Get(name string) (tlshx.Digest, bool) {
	return x.m.Load(name)
}

// Remove drops name from the index.
func (x *Index) Remove(name string) {
	x.m.Delete(name)
}

// Len returns the number of indexed digests.
func (x *Index) Len() int {
	return x.m.Size()
}

// Match returns the indexed digests at most threshold away from d, closest
// first and by name on ties. Digests of another profile are skipped.
func (x *Index) Match(d tlshx.Digest, threshold int, includeLength bool) []Match {
	var out []Match

	x.m.Range(func(name string, other tlshx.Digest) bool {
		if other.Profile() != d.Profile() {
			return true
		}

		if dist := d.Diff(other, includeLength); dist <= threshold {
			out = append(out, Match{Name: name, Digest: other, Distance: dist})
		}

		return true
	})

	slices.SortFunc(out, func(a, b Match) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Name, b.Name))
	})

	return out
}

// Pairs returns every pair of indexed digests at most threshold apart, each
// pair once, closest first.
func (x *Index) Pairs(threshold int, includeLength bool) []Pair {
	entries := x.snapshot()

	var out []Pair

	for i, a := range entries {
		for _, b := range entries[i+1:] {
			if a.digest.Profile() != b.digest.Profile() {
				continue
			}

			if dist := a.digest.Diff(b.digest, includeLength); dist <= threshold {
				out = append(out, Pair{A: a.name, B: b.name, Distance: dist})
			}
		}
	}

	slices.SortFunc(out, func(p, q Pair) int {
		return cmp.Or(
			cmp.Compare(p.Distance, q.Distance),
			cmp.Compare(p.A, q.A),
			cmp.Compare(p.B, q.B),
		)
	})

	return out
}

type entry struct {
	name   string
	digest tlshx.Digest
}

// snapshot copies the index sorted by name.
func (x *Index) snapshot() []entry {
	entries := make([]entry, 0, x.m.Size())

	x.m.Range(func(name string, d tlshx.Digest) bool {
		entries = append(entries, entry{name: name, digest: d})

		return true
	})

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.name, b.name)
	})

	return entries
}
