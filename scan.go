package imglink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// FileHash is the fingerprint of one file, or the error hashing it.
type FileHash struct {
	Path string
	Hash string
	Err  error
}

// ListImageFiles returns the supported image files directly inside dir,
// sorted by name.
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrIO, dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// HashFiles fingerprints paths with up to c.Workers goroutines. Results keep
// the order of paths; a file that fails to hash carries its error in
// FileHash.Err. onProgress, if set, is called once per file and may be called
// concurrently.
func (c *Config) HashFiles(ctx context.Context, paths []string, onProgress func()) ([]FileHash, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	results := make([]FileHash, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := c.HashFile(path)
			if err != nil {
				slog.Debug("imglink: hash failed", "path", path, "error", err.Error())
			}
			results[i] = FileHash{Path: path, Hash: h, Err: err}
			if onProgress != nil {
				onProgress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// HashDir fingerprints every supported image directly inside dir.
func (c *Config) HashDir(ctx context.Context, dir string, onProgress func()) ([]FileHash, error) {
	paths, err := ListImageFiles(dir)
	if err != nil {
		return nil, err
	}
	return c.HashFiles(ctx, paths, onProgress)
}
