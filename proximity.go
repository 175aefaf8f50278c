package imglink

import (
	"encoding/hex"
	"fmt"
	"math"
)

// Match is the outcome of resolving a fingerprint against a dictionary.
type Match struct {
	Hash     string  // dictionary hash that matched
	Link     string  // link stored with Hash
	Score    float64 // proximity in [0,1]; 1 for exact matches
	Distance int     // Hamming distance in bits, -1 when not computable
	Exact    bool    // true when Hash equals the query
}

// Proximity scores how close two hex fingerprints are, from 0 (every compared
// byte differs by 255) to 1 (identical).
//
// Both strings are cut to the shorter length rounded down to whole bytes; only
// that prefix is validated and compared. With nothing left to compare the
// result is 1.
func Proximity(a, b string) (float64, error) {
	n := min(len(a), len(b)) &^ 1

	x, err := hex.DecodeString(a[:n])
	if err != nil {
		return 0, fmt.Errorf("%w: first hash %q contains invalid hex characters", ErrFormat, a)
	}
	y, err := hex.DecodeString(b[:n])
	if err != nil {
		return 0, fmt.Errorf("%w: second hash %q contains invalid hex characters", ErrFormat, b)
	}

	if len(x) == 0 {
		return 1, nil
	}

	var diff int
	for i := range x {
		d := int(x[i]) - int(y[i])
		if d < 0 {
			d = -d
		}
		diff += d
	}

	return 1 - float64(diff)/float64(255*len(x)), nil
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: threshold must be within [0,1], got %v", ErrConfig, t)
	}
	return nil
}

// FindBest returns the candidate closest to target among those scoring at
// least threshold. When several share the best score the earliest one wins.
// ErrNotFound is returned when no candidate qualifies.
func FindBest(target string, candidates []Entry, threshold float64) (Match, error) {
	if err := checkThreshold(threshold); err != nil {
		return Match{}, err
	}

	var best Match
	found := false
	for i, c := range candidates {
		score, err := Proximity(target, c.Hash)
		if err != nil {
			return Match{}, fmt.Errorf("candidate %d: %w", i, err)
		}
		if score < threshold {
			continue
		}
		if !found || score > best.Score {
			best = Match{Hash: c.Hash, Link: c.Link, Score: score}
			found = true
		}
	}

	if !found {
		return Match{}, fmt.Errorf("%w: no hash within proximity %.2f of %s", ErrNotFound, threshold, target)
	}

	best.Distance = distanceOrUnknown(target, best.Hash)
	return best, nil
}
