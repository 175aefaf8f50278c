package imglink

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// backgroundLevel is the channel value at or above which a pixel is margin.
const backgroundLevel = 240

// TrimBorders crops near-white margins from img.
//
// A pixel is background when each of its RGB channels is at least 240; alpha
// is ignored. When nothing but background is found, or the content already
// touches every edge, img is returned as is. Otherwise the content box is
// grown by one pixel on each side (clamped to the image) and copied out.
func TrimBorders(img image.Image) image.Image {
	if img == nil || img.Bounds().Empty() {
		return img
	}

	bounds := img.Bounds()
	box, ok := contentBounds(img)
	if !ok || box == bounds {
		return img
	}

	box = image.Rect(box.Min.X-1, box.Min.Y-1, box.Max.X+1, box.Max.Y+1).Intersect(bounds)
	return imaging.Crop(img, box)
}

// contentBounds returns the smallest rectangle holding every non-background
// pixel, or false when there is none.
func contentBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isBackground(img.At(x, y)) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func isBackground(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R >= backgroundLevel && n.G >= backgroundLevel && n.B >= backgroundLevel
}
