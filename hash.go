package imglink

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// accumulatorBits is the width of the integer the hash bits are packed into.
const accumulatorBits = 64

// resampleFilter shrinks images to the hash grid. Every stored fingerprint
// depends on it: switching filters invalidates existing dictionaries.
var resampleFilter = imaging.Lanczos

// HexLen returns the length of the hex fingerprint produced for hashSize,
// ceil(hashSize²/4).
func HexLen(hashSize int) int {
	return (hashSize*hashSize + 3) / 4
}

func checkHashSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: hash size must be positive, got %d", ErrConfig, n)
	}
	if n > MaxHashSize {
		return fmt.Errorf("%w: hash size %d needs %d bits, at most %d fit", ErrConfig, n, n*n, accumulatorBits)
	}
	return nil
}

// ComputeHash returns the average hash of img as a lowercase hex string.
//
// The image is converted to grayscale, resampled to hashSize×hashSize with a
// Lanczos filter and thresholded against the truncated integer mean. Bit i
// (raster order, bit 0 top-left) is set when sample i is at or above the mean.
func ComputeHash(img image.Image, hashSize int) (string, error) {
	if err := checkHashSize(hashSize); err != nil {
		return "", err
	}
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("%w: cannot hash an empty image", ErrFormat)
	}

	samples := sampleGrid(img, hashSize)

	var sum uint64
	for _, s := range samples {
		sum += uint64(s)
	}
	avg := sum / uint64(len(samples))

	var bits uint64
	for i, s := range samples {
		if uint64(s) >= avg {
			bits |= 1 << i
		}
	}

	return fmt.Sprintf("%0*x", HexLen(hashSize), bits), nil
}

// sampleGrid reduces img to n×n luminance samples in raster order.
func sampleGrid(img image.Image, n int) []uint8 {
	small := imaging.Resize(imaging.Grayscale(img), n, n, resampleFilter)

	out := make([]uint8, 0, n*n)
	for y := range n {
		row := small.Pix[y*small.Stride:]
		for x := range n {
			// Grayscale leaves R == G == B; any channel is the intensity.
			out = append(out, row[x*4])
		}
	}
	return out
}

// ComputeFingerprint optionally trims white borders from img and hashes it.
func ComputeFingerprint(img image.Image, removeBorder bool, hashSize int) (string, error) {
	if removeBorder {
		img = TrimBorders(img)
	}
	return ComputeHash(img, hashSize)
}

// Fingerprint hashes img with the configured border policy and hash size.
func (c *Config) Fingerprint(img image.Image) (string, error) {
	c.defaults()
	return ComputeFingerprint(img, c.RemoveBorder, c.HashSize)
}
