// Package fsscan is the directory-enumeration shell spec.md calls out as a
// thin, non-core collaborator: it walks a directory for regular files and
// classifies them as carrier or shadow candidates, leaving the actual BMP
// parsing to internal/bmp. Built on afero.Fs so the orchestrator
// (internal/pipeline) can be driven against an in-memory filesystem in
// tests and a real one in production.
package fsscan

import (
	"sort"

	"github.com/spf13/afero"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/elsesec/shadowsplit/internal/shaderr"
)

// ListRegularFiles returns the names of regular files directly under dir,
// sorted for deterministic enumeration order (spec.md leaves candidate
// ordering unspecified; a fixed order is required for distribute's
// shadow-determinism property to hold across runs and hosts).
func ListRegularFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, shaderr.Wrap(shaderr.IoFailure, err, "reading directory %q", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CountRegularFiles reports how many regular files are directly under dir,
// used to default -n when the flag is not supplied (spec.md §6).
func CountRegularFiles(fs afero.Fs, dir string) (int, error) {
	names, err := ListRegularFiles(fs, dir)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// SelectCarriers scans dir for up to n regular files that are valid 8-bit
// BMPs whose pixel count is divisible by k and large enough to embed one
// shadow of a secret with secretPixelLen pixels. It fails with
// shaderr.InsufficientCarriers if fewer than n qualify.
func SelectCarriers(fs afero.Fs, dir string, k, n, secretPixelLen int) ([]string, error) {
	names, err := ListRegularFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	shadowPixelLen := secretPixelLen / k
	needed := 8 * shadowPixelLen

	selected := make([]string, 0, n)
	for _, name := range names {
		if len(selected) == n {
			break
		}
		path := JoinPath(dir, name)
		b, err := bmp.Load(fs, path)
		if err != nil {
			continue // not a BMP, or not one we support; skip silently like the reference scanner
		}
		if len(b.Pixels)%k != 0 {
			continue
		}
		if len(b.Pixels) < needed {
			continue
		}
		selected = append(selected, path)
	}

	if len(selected) < n {
		return nil, shaderr.New(shaderr.InsufficientCarriers,
			"found %d valid carriers in %q, need %d for a (%d,%d) threshold scheme", len(selected), dir, n, k, n)
	}
	return selected, nil
}

// SelectShadowCarriers scans dir for the first k regular files that are
// valid BMPs carrying a nonzero shadow index and enough pixel bytes to hold
// a hidden shadow sized for a (width, height) secret split k ways.
func SelectShadowCarriers(fs afero.Fs, dir string, k int, width, height uint32) ([]string, error) {
	names, err := ListRegularFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	secretPixelLen := int(bmp.PixelArraySize(width, height))
	shadowPixelLen := secretPixelLen / k
	needed := 8 * shadowPixelLen

	selected := make([]string, 0, k)
	for _, name := range names {
		if len(selected) == k {
			break
		}
		path := JoinPath(dir, name)
		b, err := bmp.Load(fs, path)
		if err != nil {
			continue
		}
		if !b.IsShadow() {
			continue
		}
		if len(b.Pixels) < needed {
			continue
		}
		selected = append(selected, path)
	}

	if len(selected) < k {
		return nil, shaderr.New(shaderr.InsufficientCarriers,
			"found %d valid shadow carriers in %q, need %d", len(selected), dir, k)
	}
	return selected, nil
}

// JoinPath joins dir and name with a single slash, tolerating a
// trailing slash on dir. It exists because afero.Fs paths are not
// necessarily OS paths, so path/filepath's OS-specific separator
// handling does not apply.
func JoinPath(dir, name string) string {
	if dir == "" || dir[len(dir)-1] == '/' {
		return dir + name
	}
	return dir + "/" + name
}
