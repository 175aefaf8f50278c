// Package imglink links images to bookmarks through perceptual fingerprints.
//
// An image is reduced to an average hash, looked up in a flat CSV dictionary of
// hash/link rows, and resolved either by exact hash or by the closest stored hash
// whose proximity clears a threshold.
package imglink

import (
	"net/http"
	"runtime"
	"time"
)

const (
	// DefaultHashSize is the side of the sampled grid; 8 yields a 64-bit fingerprint.
	DefaultHashSize = 8

	// MaxHashSize is the largest grid side whose bit count fits in 64 bits.
	MaxHashSize = 8

	// DefaultThreshold is the minimum proximity accepted by similarity lookup.
	DefaultThreshold = 0.95

	defaultWatchDebounce = 300 * time.Millisecond
	defaultUserAgent     = "Mozilla/5.0 (compatible; go-imglink/1.0)"
)

// Config holds hashing and lookup parameters plus injected collaborators.
// Zero values mean "use defaults".
type Config struct {
	HashSize     int     // default: DefaultHashSize (8)
	Threshold    float64 // default: DefaultThreshold (0.95), unless ThresholdSet
	ThresholdSet bool    // use Threshold as given, so 0 accepts every candidate
	RemoveBorder bool    // crop near-white margins before hashing
	AutoOrient   bool    // apply EXIF orientation before hashing

	HTTPClient *http.Client // optional: client for HashURL (nil = http.DefaultClient)
	UserAgent  string       // default: "Mozilla/5.0 (compatible; go-imglink/1.0)"
	Opener     URLOpener    // default: BrowserOpener

	Workers       int           // HashFiles concurrency (default: GOMAXPROCS)
	WatchDebounce time.Duration // quiet period before a watched file is hashed (default: 300ms)

	// OnMatch is called for every successful Resolve, exact or similar.
	OnMatch func(Match)
}

// defaults fills zero-value fields with sensible defaults.
// Negative sizes and thresholds are left alone so Validate can reject them.
func (c *Config) defaults() {
	if c.HashSize == 0 {
		c.HashSize = DefaultHashSize
	}
	if c.Threshold == 0 && !c.ThresholdSet {
		c.Threshold = DefaultThreshold
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Opener == nil {
		c.Opener = BrowserOpener{}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = defaultWatchDebounce
	}
}

// Validate applies defaults and reports an ErrConfig error for an unusable
// hash size or threshold.
func (c *Config) Validate() error {
	c.defaults()
	if err := checkHashSize(c.HashSize); err != nil {
		return err
	}
	return checkThreshold(c.Threshold)
}
