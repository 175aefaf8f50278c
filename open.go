package imglink

import (
	"fmt"
	"log/slog"

	"github.com/pkg/browser"
)

// URLOpener hands a link to whatever should display it.
type URLOpener interface {
	OpenURL(url string) error
}

// BrowserOpener opens links with the operating system's default handler.
type BrowserOpener struct{}

// OpenURL implements URLOpener.
func (BrowserOpener) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// OpenLink validates link and passes it to the configured opener. Failures
// are returned, not retried.
func (c *Config) OpenLink(link string) error {
	c.defaults()

	if !ValidateLink(link) {
		return fmt.Errorf("%w: %q is not an absolute URL", ErrFormat, link)
	}
	if err := c.Opener.OpenURL(link); err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, link, err)
	}

	slog.Debug("imglink: opened link", "link", link)
	return nil
}
