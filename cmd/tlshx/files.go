package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// fileFilter selects walked files by glob patterns. A pattern is matched
// against both the slash-separated path relative to the walked root and the
// base name.
type fileFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

func newFileFilter(include, exclude []string) (*fileFilter, error) {
	f := &fileFilter{}

	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}

		f.include = append(f.include, g)
	}

	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}

		f.exclude = append(f.exclude, g)
	}

	return f, nil
}

func (f *fileFilter) match(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)

	matchAny := func(globs []glob.Glob) bool {
		for _, g := range globs {
			if g.Match(slashed) || g.Match(base) {
				return true
			}
		}

		return false
	}

	if len(f.include) > 0 && !matchAny(f.include) {
		return false
	}

	return !matchAny(f.exclude)
}

// collectFiles expands roots into regular files. Files named directly are
// always kept; files found by walking a directory go through filter.
func collectFiles(roots []string, filter *fileFilter) ([]string, error) {
	var files []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, root)

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			if filter.match(rel) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}
