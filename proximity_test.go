package imglink

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestProximity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "max difference", a: "ff", b: "00", want: 0},
		{name: "identical", a: "ff", b: "ff", want: 1},
		{name: "identical 64-bit", a: "f0f0f0f0f0f0f0f0", b: "f0f0f0f0f0f0f0f0", want: 1},
		{name: "half step", a: "80", b: "00", want: 1 - 128.0/255},
		{name: "mixed case compares equal", a: "ABCD", b: "abcd", want: 1},
		{name: "longer hash truncated", a: "ff00ff", b: "ff", want: 1},
		{name: "odd length rounded down", a: "fff", b: "ff0", want: 1},
		{name: "empty strings are identical", a: "", b: "", want: 1},
		{name: "single char has nothing to compare", a: "f", b: "0", want: 1},
		{name: "invalid tail beyond comparison is ignored", a: "ffzz", b: "ff", want: 1},
		{name: "two bytes one maximal", a: "00ff", b: "0000", want: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Proximity(tc.a, tc.b)
			if err != nil {
				t.Fatalf("Proximity(%q, %q): %v", tc.a, tc.b, err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Proximity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestProximity_InvalidHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  string
		which string
	}{
		{name: "first invalid", a: "zz", b: "00", which: "first"},
		{name: "second invalid", a: "00", b: "0g", which: "second"},
		{name: "both invalid reports first", a: "x1", b: "y2", which: "first"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Proximity(tc.a, tc.b)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("error = %v, want ErrFormat", err)
			}
			if !strings.Contains(err.Error(), tc.which) {
				t.Errorf("error %q does not name the %s hash", err, tc.which)
			}
		})
	}
}

func TestProximity_Properties(t *testing.T) {
	t.Parallel()

	hashes := []string{
		"0000000000000000", "ffffffffffffffff", "f0f0f0f0f0f0f0f0",
		"00000000ffffffff", "0123456789abcdef", "fedcba9876543210",
		"8", "1a2b3", "",
	}

	for _, a := range hashes {
		self, err := Proximity(a, a)
		if err != nil || self != 1 {
			t.Errorf("Proximity(%q, itself) = %v, %v; want 1", a, self, err)
		}
		for _, b := range hashes {
			ab, err := Proximity(a, b)
			if err != nil {
				t.Fatalf("Proximity(%q, %q): %v", a, b, err)
			}
			ba, err := Proximity(b, a)
			if err != nil {
				t.Fatalf("Proximity(%q, %q): %v", b, a, err)
			}
			if ab != ba {
				t.Errorf("not symmetric: (%q,%q)=%v, reversed=%v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("Proximity(%q, %q) = %v outside [0,1]", a, b, ab)
			}
		}
	}
}

func TestFindBest(t *testing.T) {
	t.Parallel()

	candidates := []Entry{
		{Hash: "00000000000000ff", Link: "https://far.test"},
		{Hash: "fffffffffffffffe", Link: "https://near.test"},
		{Hash: "fffffffffffffff0", Link: "https://closer-but-not-best.test"},
	}

	m, err := FindBest("ffffffffffffffff", candidates, 0.95)
	if err != nil {
		t.Fatalf("FindBest: %v", err)
	}
	if m.Link != "https://near.test" {
		t.Errorf("Link = %q, want https://near.test", m.Link)
	}
	if want := 1 - 1.0/(255*8); math.Abs(m.Score-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", m.Score, want)
	}
	if m.Distance != 1 {
		t.Errorf("Distance = %d, want 1", m.Distance)
	}
	if m.Exact {
		t.Error("similarity match must not be flagged exact")
	}
}

func TestFindBest_TieKeepsFirst(t *testing.T) {
	t.Parallel()

	candidates := []Entry{
		{Hash: "fe", Link: "https://first.test"},
		{Hash: "fe", Link: "https://second.test"},
	}
	m, err := FindBest("ff", candidates, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if m.Link != "https://first.test" {
		t.Errorf("Link = %q, want the first candidate", m.Link)
	}
}

func TestFindBest_NotFound(t *testing.T) {
	t.Parallel()

	if _, err := FindBest("ff", nil, 0.95); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty candidates: error = %v, want ErrNotFound", err)
	}
	if _, err := FindBest("ff", []Entry{{Hash: "00", Link: "https://x.test"}}, 0.95); !errors.Is(err, ErrNotFound) {
		t.Errorf("below threshold: error = %v, want ErrNotFound", err)
	}
}

func TestFindBest_ThresholdMonotonic(t *testing.T) {
	t.Parallel()

	candidates := []Entry{
		{Hash: "f0", Link: "https://a.test"},
		{Hash: "c0", Link: "https://b.test"},
		{Hash: "80", Link: "https://c.test"},
		{Hash: "00", Link: "https://d.test"},
	}
	eligible := func(threshold float64) int {
		n := 0
		for _, c := range candidates {
			if _, err := FindBest("ff", []Entry{c}, threshold); err == nil {
				n++
			}
		}
		return n
	}

	prev := -1
	for _, th := range []float64{1, 0.95, 0.8, 0.5, 0.25, 0} {
		n := eligible(th)
		if n < prev {
			t.Errorf("threshold %v: %d eligible, fewer than %d at a higher threshold", th, n, prev)
		}
		prev = n
	}
	if prev != len(candidates) {
		t.Errorf("threshold 0: %d eligible, want all %d", prev, len(candidates))
	}
}

func TestFindBest_Errors(t *testing.T) {
	t.Parallel()

	if _, err := FindBest("ff", []Entry{{Hash: "zz", Link: "https://x.test"}}, 0.5); !errors.Is(err, ErrFormat) {
		t.Errorf("invalid candidate: error = %v, want ErrFormat", err)
	}
	for _, th := range []float64{-0.1, 1.5, math.NaN()} {
		if _, err := FindBest("ff", nil, th); !errors.Is(err, ErrConfig) {
			t.Errorf("threshold %v: error = %v, want ErrConfig", th, err)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "f0f0f0f0f0f0f0f0", b: "f0f0f0f0f0f0f0f0", want: 0},
		{name: "one bit", a: "ffffffffffffffff", b: "fffffffffffffffe", want: 1},
		{name: "all bits", a: "ffffffffffffffff", b: "0000000000000000", want: 64},
		{name: "short hash", a: "1ff", b: "0f0", want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := HammingDistance(tc.a, tc.b)
			if err != nil {
				t.Fatalf("HammingDistance: %v", err)
			}
			if got != tc.want {
				t.Errorf("HammingDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}

	for _, pair := range [][2]string{{"ff", "fff"}, {"zz", "ff"}, {"", ""}} {
		if _, err := HammingDistance(pair[0], pair[1]); !errors.Is(err, ErrFormat) {
			t.Errorf("HammingDistance(%q, %q) error = %v, want ErrFormat", pair[0], pair[1], err)
		}
	}
}
