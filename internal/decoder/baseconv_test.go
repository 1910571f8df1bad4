package decoder

import (
	"strconv"
	"testing"
)

func TestConvertBase(t *testing.T) {
	tests := []struct {
		digits   string
		from, to int
		want     string
	}{
		{"0", 10, 2, "0"},
		{"1", 10, 2, "1"},
		{"10", 2, 10, "2"},
		{"255", 10, 16, "ff"},
		{"ff", 16, 10, "255"},
		{"Z", 62, 10, "61"},
		{"10", 64, 10, "64"},
		{"", 10, 10, "0"},
	}

	for _, tt := range tests {
		got, err := ConvertBase(tt.digits, tt.from, tt.to)
		if err != nil {
			t.Errorf("ConvertBase(%q, %d, %d) error: %v", tt.digits, tt.from, tt.to, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ConvertBase(%q, %d, %d) = %q, want %q", tt.digits, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertBaseRoundTrip(t *testing.T) {
	values := []int{0, 1, 5, 63, 64, 255, 4095, 1 << 20}

	for _, n := range values {
		for b := 2; b <= MaxBase; b++ {
			enc, err := ConvertBase(strconv.Itoa(n), 10, b)
			if err != nil {
				t.Fatalf("encoding %d in base %d: %v", n, b, err)
			}
			dec, err := ConvertBase(enc, b, 10)
			if err != nil {
				t.Fatalf("decoding %q from base %d: %v", enc, b, err)
			}
			if dec != strconv.Itoa(n) {
				t.Errorf("round trip of %d through base %d = %q", n, b, dec)
			}
		}
	}
}

func TestConvertBaseIgnoresUnknownSymbols(t *testing.T) {
	// '/' is not a valid binary digit and must contribute zero.
	got, err := ConvertBase("/1", 2, 10)
	if err != nil {
		t.Fatalf("ConvertBase: %v", err)
	}
	if got != "1" {
		t.Errorf("ConvertBase(\"/1\", 2, 10) = %q, want \"1\"", got)
	}

	// Symbols past the source base are also not digits.
	got, err = ConvertBase("z1", 8, 10)
	if err != nil {
		t.Fatalf("ConvertBase: %v", err)
	}
	if got != "1" {
		t.Errorf("ConvertBase(\"z1\", 8, 10) = %q, want \"1\"", got)
	}
}

func TestConvertBaseRejectsBadBases(t *testing.T) {
	for _, b := range []int{-1, 0, 1, 65, 100} {
		if _, err := ConvertBase("1", b, 10); err == nil {
			t.Errorf("ConvertBase with source base %d did not fail", b)
		}
		if _, err := ConvertBase("1", 10, b); err == nil {
			t.Errorf("ConvertBase with target base %d did not fail", b)
		}
	}
}
