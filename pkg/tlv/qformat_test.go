package tlv

import (
	"math"
	"testing"
)

func TestEncodeQ97(t *testing.T) {
	// Wire values observed from a certified UWB controller for the
	// AoA notification bounds.
	tests := []struct {
		radians float64
		want    uint16
	}{
		{-1.5, 0xD507},
		{2.5, 0x479E},
		{1.2, 0x2260},
		{0, 0x0000},
	}
	for _, tt := range tests {
		got := EncodeQ97(RadiansToDegrees(tt.radians))
		if got != tt.want {
			t.Errorf("EncodeQ97(%v rad) = %#04x, want %#04x", tt.radians, got, tt.want)
		}
	}
}

func TestDecodeQ97(t *testing.T) {
	for _, deg := range []float64{-85.9375, 0, 68.75, 143.234375} {
		got := DecodeQ97(EncodeQ97(deg))
		if got != deg {
			t.Errorf("round trip of %v degrees = %v", deg, got)
		}
	}

	// Flooring loses at most one step.
	deg := RadiansToDegrees(2.5)
	back := DecodeQ97(EncodeQ97(deg))
	if diff := deg - back; diff < 0 || diff >= 1.0/128 {
		t.Errorf("floor error = %v, want [0, 1/128)", diff)
	}
}

func TestRadiansDegreesRoundTrip(t *testing.T) {
	for _, rad := range []float64{-math.Pi, -1.5, 0, 1.2, math.Pi / 2} {
		back := DegreesToRadians(RadiansToDegrees(rad))
		if math.Abs(back-rad) > 1e-12 {
			t.Errorf("round trip of %v rad = %v", rad, back)
		}
	}
}
