package imglink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// DecodeImage decodes a GIF, JPEG, PNG, BMP, TIFF or WebP image from r.
// With autoOrient set the EXIF orientation, if any, is applied.
func DecodeImage(r io.Reader, autoOrient bool) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", ErrIO, err)
	}
	return decodeBytes(data, autoOrient)
}

func decodeBytes(data []byte, autoOrient bool) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", ErrFormat, err)
	}
	if autoOrient {
		img = applyOrientation(img, exifOrientation(data))
	}
	return img, nil
}

func (c *Config) hashBytes(data []byte) (string, error) {
	img, err := decodeBytes(data, c.AutoOrient)
	if err != nil {
		return "", err
	}
	return c.Fingerprint(img)
}

// HashReader decodes an image from r and returns its fingerprint.
func (c *Config) HashReader(r io.Reader) (string, error) {
	c.defaults()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: read image: %w", ErrIO, err)
	}
	return c.hashBytes(data)
}

// HashFile decodes the image at path and returns its fingerprint.
func (c *Config) HashFile(path string) (string, error) {
	c.defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read image %s: %w", ErrIO, path, err)
	}
	h, err := c.hashBytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// HashSource fingerprints src, which may be an http(s) URL, a data: URI or a
// file path.
func (c *Config) HashSource(ctx context.Context, src string) (string, error) {
	c.defaults()
	switch {
	case isRemoteSource(src):
		return c.HashURL(ctx, src)
	case strings.HasPrefix(src, "data:"):
		data, _, err := DecodeDataURL(src)
		if err != nil {
			return "", err
		}
		return c.hashBytes(data)
	default:
		return c.HashFile(src)
	}
}
