package imglink

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// DecodeDataURL extracts the payload and MIME type from a data: URI such as
// "data:image/png;base64,iVBOR...". Non-base64 payloads are percent-decoded.
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: not a data URL", ErrFormat)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: data URL has no payload", ErrFormat)
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: data URL payload: %w", ErrFormat, err)
		}
		return data, mimeType, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: data URL payload: %w", ErrFormat, err)
	}
	return []byte(text), mimeType, nil
}
