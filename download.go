package imglink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DownloadOpts configures an image download.
type DownloadOpts struct {
	MaxBytes  int64         // max response body size (default: 20MB)
	Timeout   time.Duration // per-request timeout (default: 10s)
	UserAgent string        // override config user agent
}

const (
	defaultMaxBytes = 20 << 20 // 20MB
	defaultTimeout  = 10 * time.Second
)

// DownloadResult holds downloaded image data.
type DownloadResult struct {
	Data     []byte
	MIMEType string
}

// Download fetches an image from url. Non-200 responses, non-image content
// types and bodies larger than MaxBytes are reported as ErrIO errors.
func (c *Config) Download(ctx context.Context, url string, opts DownloadOpts) (*DownloadResult, error) {
	c.defaults()

	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = c.UserAgent
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrIO, err)
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.HTTPClient.Do(req) //nolint:gosec // G704: caller-supplied URL
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrIO, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrIO, url, resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" → "image/jpeg"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: fetch %s: content type %q is not an image", ErrIO, url, ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, url, err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrIO, url, opts.MaxBytes)
	}

	slog.Debug("imglink: downloaded image", "url", url, "bytes", len(data), "type", ct)
	return &DownloadResult{Data: data, MIMEType: ct}, nil
}

// HashURL downloads the image at url and returns its fingerprint.
func (c *Config) HashURL(ctx context.Context, url string) (string, error) {
	r, err := c.Download(ctx, url, DownloadOpts{})
	if err != nil {
		return "", err
	}
	return c.hashBytes(r.Data)
}
