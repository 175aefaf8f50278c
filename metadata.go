package imglink

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/bep/imagemeta"
	"github.com/disintegration/imaging"
)

// EXIF orientation values, see the TIFF/EXIF "Orientation" tag.
const (
	orientationNormal     = 1
	orientationFlipH      = 2
	orientationRotate180  = 3
	orientationFlipV      = 4
	orientationTranspose  = 5
	orientationRotate90   = 6
	orientationTransverse = 7
	orientationRotate270  = 8
)

// metaFormats maps image.DecodeConfig format names to imagemeta formats.
var metaFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"tiff": imagemeta.TIFF,
	"webp": imagemeta.WebP,
}

// exifOrientation returns the EXIF Orientation of the encoded image in data.
// Missing or unreadable metadata yields orientationNormal.
func exifOrientation(data []byte) int {
	if len(data) == 0 {
		return orientationNormal
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return orientationNormal
	}
	imgFormat, ok := metaFormats[format]
	if !ok {
		return orientationNormal
	}

	orientation := orientationNormal
	_, err = imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: imgFormat,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if v, ok := tagValueInt(ti.Value); ok && v >= orientationNormal && v <= orientationRotate270 {
				orientation = v
			}
			return nil
		},
	})
	if err != nil {
		slog.Debug("imglink: metadata decode failed", "format", format, "error", err.Error())
		return orientationNormal
	}

	return orientation
}

// tagValueInt extracts an integer from a tag value.
// EXIF SHORT values arrive as uint16, some writers use LONG.
func tagValueInt(v any) (int, bool) {
	switch val := v.(type) {
	case uint16:
		return int(val), true
	case uint32:
		return int(val), true
	case uint8:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case []uint16:
		if len(val) > 0 {
			return int(val[0]), true
		}
	case []any:
		if len(val) > 0 {
			return tagValueInt(val[0])
		}
	}
	return 0, false
}

// applyOrientation transforms img so that it displays upright for the given
// EXIF orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case orientationFlipH:
		return imaging.FlipH(img)
	case orientationRotate180:
		return imaging.Rotate180(img)
	case orientationFlipV:
		return imaging.FlipV(img)
	case orientationTranspose:
		return imaging.Transpose(img)
	case orientationRotate90:
		return imaging.Rotate270(img)
	case orientationTransverse:
		return imaging.Transverse(img)
	case orientationRotate270:
		return imaging.Rotate90(img)
	}
	return img
}
