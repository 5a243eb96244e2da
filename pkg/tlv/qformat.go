package tlv

import "math"

// Angles cross the wire as Q9.7 fixed point: a 16-bit two's complement
// value holding degrees scaled by 2^7. The value is floored, not
// rounded, to match the UWB control interface.

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// EncodeQ97 converts an angle in degrees to its Q9.7 wire value.
func EncodeQ97(degrees float64) uint16 {
	return uint16(int16(math.Floor(degrees * 128)))
}

// DecodeQ97 converts a Q9.7 wire value back to degrees.
func DecodeQ97(v uint16) float64 {
	return float64(int16(v)) / 128
}
