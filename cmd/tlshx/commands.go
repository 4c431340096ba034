package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kalbasit/tlshx"
	"github.com/kalbasit/tlshx/internal/index"
)

type hashRecord struct {
	Path   string `json:"path"`
	Size   uint64 `json:"size"`
	Digest string `json:"digest"`
}

type hashCmd struct {
	Flags  hashFlags  `embed:""`
	Output formatFlag `embed:""`
	Paths  []string   `arg:"" help:"Files or directories to hash"`
}

func (c *hashCmd) Run(rc *runContext) error {
	results, err := hashPaths(rc.ctx, rc.logger, c.Paths, &c.Flags)
	if err != nil {
		return err
	}

	if c.Output.Format == "text" {
		for _, r := range results {
			fmt.Fprintf(rc.stdout, "%s  %s\n", r.Digest, r.Path)
		}

		return nil
	}

	records := make([]hashRecord, 0, len(results))
	for _, r := range results {
		records = append(records, hashRecord{Path: r.Path, Size: r.Size, Digest: r.Digest.Hash()})
	}

	return c.Output.encode(rc.stdout, records)
}

type diffCmd struct {
	NoLength bool   `help:"Leave the input length out of the distance"`
	Profile  string `help:"Profile used when an operand is a file" default:"128x1" enum:"128x1,128x3,256x1,256x3" env:"TLSHX_PROFILE"`
	A        string `arg:"" help:"First digest or file"`
	B        string `arg:"" help:"Second digest or file"`
}

func (c *diffCmd) Run(rc *runContext) error {
	p, ok := tlshx.ProfileByName(c.Profile)
	if !ok {
		return fmt.Errorf("unknown profile %q", c.Profile)
	}

	a, err := resolveDigest(c.A, p)
	if err != nil {
		return err
	}

	b, err := resolveDigest(c.B, p)
	if err != nil {
		return err
	}

	if a.Profile() != b.Profile() {
		return fmt.Errorf("cannot compare a %s digest with a %s digest", a.Profile(), b.Profile())
	}

	_, err = fmt.Fprintln(rc.stdout, a.Diff(b, !c.NoLength))

	return err
}

// resolveDigest parses s as a digest, or digests the file it names.
func resolveDigest(s string, p tlshx.Profile) (tlshx.Digest, error) {
	d, parseErr := tlshx.Parse(s)
	if parseErr == nil {
		return d, nil
	}

	f, err := os.Open(s)
	if errors.Is(err, os.ErrNotExist) {
		return tlshx.Digest{}, fmt.Errorf("%q is neither a digest nor a file: %w", s, parseErr)
	}

	if err != nil {
		return tlshx.Digest{}, err
	}
	defer f.Close()

	d, err = tlshx.FromReader(f, tlshx.WithProfile(p))
	if err != nil {
		return tlshx.Digest{}, fmt.Errorf("%s: %w", s, err)
	}

	return d, nil
}

type parsedDigest struct {
	Digest   string `json:"digest"`
	Profile  string `json:"profile"`
	Checksum string `json:"checksum"`
	LValue   uint8  `json:"lvalue"`
	QRatio   uint8  `json:"qratio"`
	Code     string `json:"code"`
}

type parseCmd struct {
	Output  formatFlag `embed:""`
	Digests []string   `arg:"" help:"Digests to decode"`
}

func (c *parseCmd) Run(rc *runContext) error {
	parsed := make([]parsedDigest, 0, len(c.Digests))

	for _, s := range c.Digests {
		d, err := tlshx.Parse(s)
		if err != nil {
			return err
		}

		parsed = append(parsed, parsedDigest{
			Digest:   d.Hash(),
			Profile:  d.Profile().Name(),
			Checksum: fmt.Sprintf("%X", d.Checksum()),
			LValue:   d.LValue(),
			QRatio:   d.QRatio(),
			Code:     fmt.Sprintf("%X", d.Code()),
		})
	}

	if c.Output.Format != "text" {
		return c.Output.encode(rc.stdout, parsed)
	}

	for _, p := range parsed {
		fmt.Fprintf(rc.stdout, "%s\n  profile:  %s\n  checksum: %s\n  lvalue:   %d\n  qratio:   %d\n  code:     %s\n",
			p.Digest, p.Profile, p.Checksum, p.LValue, p.QRatio, p.Code)
	}

	return nil
}

type scanCmd struct {
	Flags     hashFlags  `embed:""`
	Output    formatFlag `embed:""`
	Threshold int        `help:"Largest distance reported" default:"50" short:"t" env:"TLSHX_THRESHOLD"`
	NoLength  bool       `help:"Leave the input length out of the distance"`
	Paths     []string   `arg:"" help:"Files or directories to scan"`
}

func (c *scanCmd) Run(rc *runContext) error {
	results, err := hashPaths(rc.ctx, rc.logger, c.Paths, &c.Flags)
	if err != nil {
		return err
	}

	idx := index.New()
	for _, r := range results {
		if err := idx.Add(r.Path, r.Digest); err != nil {
			return err
		}
	}

	pairs := idx.Pairs(c.Threshold, !c.NoLength)
	rc.logger.Info("scan complete", "files", idx.Len(), "pairs", len(pairs))

	if c.Output.Format != "text" {
		type pairRecord struct {
			A        string `json:"a"`
			B        string `json:"b"`
			Distance int    `json:"distance"`
		}

		records := make([]pairRecord, 0, len(pairs))
		for _, p := range pairs {
			records = append(records, pairRecord(p))
		}

		return c.Output.encode(rc.stdout, records)
	}

	for _, p := range pairs {
		fmt.Fprintf(rc.stdout, "%4d  %s  %s\n", p.Distance, p.A, p.B)
	}

	return nil
}

type segmentRecord struct {
	Offset  uint64 `json:"offset"`
	Length  uint64 `json:"length"`
	Digest  string `json:"digest,omitempty"`
	Skipped string `json:"skipped,omitempty"`
}

type segmentsCmd struct {
	Output     formatFlag `embed:""`
	Profile    string     `help:"Digest profile" default:"128x1" enum:"128x1,128x3,256x1,256x3" env:"TLSHX_PROFILE"`
	MinSize    uint32     `help:"Minimum segment size in bytes" default:"4096"`
	TargetSize uint32     `help:"Target segment size in bytes" default:"16384"`
	MaxSize    uint32     `help:"Maximum segment size in bytes" default:"65536"`
	File       string     `arg:"" help:"File to segment" type:"existingfile"`
}

func (c *segmentsCmd) Run(rc *runContext) error {
	p, ok := tlshx.ProfileByName(c.Profile)
	if !ok {
		return fmt.Errorf("unknown profile %q", c.Profile)
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	segments, err := tlshx.Segments(f,
		tlshx.WithProfile(p),
		tlshx.WithSegmentSizes(c.MinSize, c.TargetSize, c.MaxSize),
	)
	if err != nil {
		return err
	}

	records := make([]segmentRecord, 0, len(segments))
	for _, s := range segments {
		r := segmentRecord{Offset: s.Offset, Length: s.Length, Digest: s.Digest.Hash()}
		if s.Err != nil {
			r.Skipped = strings.TrimPrefix(s.Err.Error(), tlshx.ErrNoDigest.Error()+": ")
		}

		records = append(records, r)
	}

	if c.Output.Format != "text" {
		return c.Output.encode(rc.stdout, records)
	}

	for _, r := range records {
		digest := r.Digest
		if r.Skipped != "" {
			digest = "-"
		}

		fmt.Fprintf(rc.stdout, "%10d %8d  %s\n", r.Offset, r.Length, digest)
	}

	return nil
}
