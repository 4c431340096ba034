package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kalbasit/tlshx"
)

// hashFlags are shared by the commands that walk the file system.
type hashFlags struct {
	Profile string   `help:"Digest profile" default:"128x1" enum:"128x1,128x3,256x1,256x3" env:"TLSHX_PROFILE"`
	Include []string `help:"Only hash walked files matching these globs" short:"i"`
	Exclude []string `help:"Skip walked files matching these globs" short:"x"`
	Jobs    int      `help:"Files hashed in parallel (0 for one per CPU)" default:"0" short:"j" env:"TLSHX_JOBS"`
}

func (f *hashFlags) options() ([]tlshx.Option, error) {
	p, ok := tlshx.ProfileByName(f.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", f.Profile)
	}

	return []tlshx.Option{tlshx.WithProfile(p)}, nil
}

func (f *hashFlags) jobs() int {
	if f.Jobs <= 0 {
		return runtime.NumCPU()
	}

	return f.Jobs
}

type fileDigest struct {
	Path   string
	Size   uint64
	Digest tlshx.Digest
}

// hashPaths collects the files under paths and digests them in parallel.
// Files that cannot be summarized are logged and left out of the result,
// which keeps the order of collection.
func hashPaths(ctx context.Context, logger *slog.Logger, paths []string, flags *hashFlags) ([]fileDigest, error) {
	filter, err := newFileFilter(flags.Include, flags.Exclude)
	if err != nil {
		return nil, err
	}

	files, err := collectFiles(paths, filter)
	if err != nil {
		return nil, err
	}

	opts, err := flags.options()
	if err != nil {
		return nil, err
	}

	pool, err := tlshx.NewBuilderPool(opts...)
	if err != nil {
		return nil, err
	}

	results := make([]fileDigest, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(flags.jobs())

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			d, n, err := digestFile(path, pool)

			switch {
			case errors.Is(err, tlshx.ErrNoDigest):
				logger.Warn("skipping file", "path", path, "size", n, "reason", err)
			case err != nil:
				return fmt.Errorf("hash %s: %w", path, err)
			default:
				logger.Debug("hashed file", "path", path, "size", n)
			}

			results[i] = fileDigest{Path: path, Size: n, Digest: d}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.DeleteFunc(results, func(r fileDigest) bool { return r.Digest.IsZero() }), nil
}

func digestFile(path string, pool *tlshx.BuilderPool) (tlshx.Digest, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return tlshx.Digest{}, 0, err
	}
	defer f.Close()

	b := pool.Get()
	defer pool.Put(b)

	if _, err := b.ReadFrom(f); err != nil {
		return tlshx.Digest{}, b.Len(), err
	}

	d, err := b.Build()

	return d, b.Len(), err
}
