// Package ccc defines parameter types for CCC (Car Connectivity
// Consortium) digital key ranging sessions.
package ccc

import "fmt"

// ProtocolVersion is a CCC major.minor protocol version.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// Version10 is CCC 1.0.
var Version10 = ProtocolVersion{1, 0}

// String returns "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// UwbConfig is a CCC UWB configuration ID.
type UwbConfig uint16

const (
	UwbConfig0 UwbConfig = 0
	UwbConfig1 UwbConfig = 1
)

// PulseShape is a CCC pulse shape.
type PulseShape uint8

const (
	PulseShapeSymmetricalRootRaisedCosine PulseShape = 0
	PulseShapePrecursorFree               PulseShape = 1
	PulseShapePrecursorFreeSpecial        PulseShape = 2
)

// PulseShapeCombo pairs the initiator and responder pulse shapes.
// On the wire it is one byte: initiator in the high nibble.
type PulseShapeCombo struct {
	Initiator PulseShape
	Responder PulseShape
}

// Byte packs the combo into its wire form.
func (c PulseShapeCombo) Byte() uint8 {
	return uint8(c.Initiator)<<4 | uint8(c.Responder)&0x0F
}

// PulseShapeComboFromByte unpacks a wire combo byte.
func PulseShapeComboFromByte(b uint8) PulseShapeCombo {
	return PulseShapeCombo{
		Initiator: PulseShape(b >> 4),
		Responder: PulseShape(b & 0x0F),
	}
}

// HoppingConfigMode selects the channel hopping configuration.
type HoppingConfigMode uint8

const (
	HoppingConfigModeNone       HoppingConfigMode = 0
	HoppingConfigModeContinuous HoppingConfigMode = 1
	HoppingConfigModeAdaptive   HoppingConfigMode = 2
)

// HoppingSequence selects the hopping sequence generator.
type HoppingSequence uint8

const (
	HoppingSequenceDefault HoppingSequence = 0
	HoppingSequenceAes     HoppingSequence = 1
)

// Hopping mode values carried in the session config record.
const (
	HoppingModeDisable           uint8 = 0
	HoppingModeAdaptiveDefault   uint8 = 2
	HoppingModeContinuousDefault uint8 = 3
	HoppingModeAdaptiveAes       uint8 = 4
	HoppingModeContinuousAes     uint8 = 5
)

// HoppingModeByte maps a config mode and sequence to the session
// config value.
func HoppingModeByte(mode HoppingConfigMode, seq HoppingSequence) uint8 {
	switch mode {
	case HoppingConfigModeContinuous:
		if seq == HoppingSequenceAes {
			return HoppingModeContinuousAes
		}
		return HoppingModeContinuousDefault
	case HoppingConfigModeAdaptive:
		if seq == HoppingSequenceAes {
			return HoppingModeAdaptiveAes
		}
		return HoppingModeAdaptiveDefault
	default:
		return HoppingModeDisable
	}
}

// Hopping capability bits in the specification record.
const (
	HoppingCapNone       uint8 = 0x80
	HoppingCapContinuous uint8 = 0x40
	HoppingCapAdaptive   uint8 = 0x20
	HoppingCapDefaultSeq uint8 = 0x10
	HoppingCapAesSeq     uint8 = 0x08
)

// Chaps-per-slot capability bit positions, lowest bit first.
var chapsPerSlotValues = []int{3, 4, 6, 8, 9, 12, 24}

// ChapsPerSlotFromMask expands the chaps-per-slot capability bitmask.
func ChapsPerSlotFromMask(mask uint8) []int {
	var out []int
	for i, v := range chapsPerSlotValues {
		if mask&(1<<i) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// Channel capability bits.
const (
	ChannelCap5 uint8 = 0x01
	ChannelCap9 uint8 = 0x02
)

// ChannelsFromMask expands the CCC channel capability bitmask.
func ChannelsFromMask(mask uint8) []int {
	var out []int
	if mask&ChannelCap5 != 0 {
		out = append(out, 5)
	}
	if mask&ChannelCap9 != 0 {
		out = append(out, 9)
	}
	return out
}

// Timing conversions.
const (
	// RanMultiplierToIntervalMs converts a RAN multiplier to the
	// ranging interval in milliseconds.
	RanMultiplierToIntervalMs = 96

	// ChapsPerSlotToRstu converts chaps per slot to the slot duration
	// in ranging slot time units.
	ChapsPerSlotToRstu = 400

	// DefaultUrskTTL is the URSK time-to-live in units of 2^10 RSTU.
	DefaultUrskTTL uint16 = 0x2D0
)
