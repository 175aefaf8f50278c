package imglink

import (
	"errors"
	"fmt"
	"log/slog"
)

// ResolveLink returns the link stored for hash, or an ErrNotFound error.
func ResolveLink(dict Dictionary, hash string) (string, error) {
	e, ok := dict.Lookup(hash)
	if !ok {
		return "", fmt.Errorf("%w: no entry for hash %s", ErrNotFound, hash)
	}
	return e.Link, nil
}

// ResolveSimilarLink returns the closest dictionary entry whose proximity to
// hash is at least threshold.
func ResolveSimilarLink(dict Dictionary, hash string, threshold float64) (Match, error) {
	return dict.Similar(hash, threshold)
}

// Resolve looks hash up exactly and falls back to the closest entry above the
// configured threshold.
func (c *Config) Resolve(dict Dictionary, hash string) (Match, error) {
	c.defaults()

	m, err := c.resolve(dict, hash)
	if err != nil {
		return Match{}, err
	}
	if c.OnMatch != nil {
		c.OnMatch(m)
	}
	return m, nil
}

func (c *Config) resolve(dict Dictionary, hash string) (Match, error) {
	if e, ok := dict.Lookup(hash); ok {
		return Match{Hash: e.Hash, Link: e.Link, Score: 1, Exact: true}, nil
	}

	m, err := ResolveSimilarLink(dict, hash, c.Threshold)
	if errors.Is(err, ErrNotFound) {
		slog.Debug("imglink: no similar hash", "hash", hash, "threshold", c.Threshold, "entries", len(dict))
	}
	return m, err
}
