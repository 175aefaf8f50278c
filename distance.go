package imglink

import (
	"fmt"
	"strconv"

	"github.com/corona10/goimagehash"
)

// HammingDistance counts the bits that differ between two fingerprints of the
// same hash size.
func HammingDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: hashes %q and %q differ in length", ErrFormat, a, b)
	}
	ha, err := toImageHash(a)
	if err != nil {
		return 0, err
	}
	hb, err := toImageHash(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}

func toImageHash(s string) (*goimagehash.ImageHash, error) {
	v, err := strconv.ParseUint(s, 16, accumulatorBits)
	if err != nil {
		return nil, fmt.Errorf("%w: hash %q is not a 64-bit hex value", ErrFormat, s)
	}
	return goimagehash.NewImageHash(v, goimagehash.AHash), nil
}

// distanceOrUnknown is HammingDistance with -1 standing in for any failure.
func distanceOrUnknown(a, b string) int {
	d, err := HammingDistance(a, b)
	if err != nil {
		return -1
	}
	return d
}
