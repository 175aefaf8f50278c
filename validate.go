package imglink

import (
	"net/url"
	"strings"
)

// ValidateLink reports whether raw parses as an absolute URL: a scheme plus a
// host, an opaque part or a path ("https://x.test", "mailto:a@b.c",
// "file:///tmp/a").
func ValidateLink(raw string) bool {
	if raw == "" || strings.TrimSpace(raw) != raw {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}

// isRemoteSource reports whether src should be downloaded rather than read
// from disk.
func isRemoteSource(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
