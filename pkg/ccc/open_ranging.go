package ccc

import (
	"errors"
	"fmt"

	"github.com/openuwb/uwb/pkg/fira"
)

// Errors returned by parameter builders.
var (
	ErrMissingRequired = errors.New("ccc: missing required parameter")
	ErrInvalidParam    = errors.New("ccc: invalid parameter")
)

// StsIndexUnset marks an absent starting STS index.
const StsIndexUnset = -1

// OpenRangingParams configures a CCC ranging session. The local device
// is always the controller/initiator of a one-to-many session with
// dynamic STS; those fields are fixed by the CCC profile and not
// configurable here.
type OpenRangingParams struct {
	ProtocolVersion ProtocolVersion
	SessionID       uint32
	UwbConfig       UwbConfig
	PulseShapeCombo PulseShapeCombo

	RanMultiplier     uint32
	Channel           uint8
	NumChapsPerSlot   uint8
	NumResponderNodes uint8
	NumSlotsPerRound  uint8
	SyncCodeIndex     uint8
	HoppingConfigMode HoppingConfigMode
	HoppingSequence   HoppingSequence

	// StsIndex is the starting STS index, StsIndexUnset when absent.
	StsIndex int32

	InitiationTimeMs         uint64
	AbsoluteInitiationTimeUs uint64

	// Range data notifications; encoded only when the device supports
	// notification configuration for CCC sessions.
	RangeDataNtfConfig        fira.RangeDataNtfConfig
	RangeDataNtfProximityNear uint16
	RangeDataNtfProximityFar  uint16
	// AoA notification bounds, radians.
	RangeDataNtfAoaAzimuthLower   float64
	RangeDataNtfAoaAzimuthUpper   float64
	RangeDataNtfAoaElevationLower float64
	RangeDataNtfAoaElevationUpper float64
}

// OpenRangingBuilder assembles OpenRangingParams.
type OpenRangingBuilder struct {
	p   OpenRangingParams
	set struct {
		version   bool
		sessionID bool
		uwbConfig bool
		combo     bool
		ran       bool
		channel   bool
		chaps     bool
		nodes     bool
		slots     bool
		syncCode  bool
	}
}

// NewOpenRangingBuilder creates a builder with default optional values.
func NewOpenRangingBuilder() *OpenRangingBuilder {
	return &OpenRangingBuilder{p: OpenRangingParams{
		StsIndex:                      StsIndexUnset,
		RangeDataNtfProximityFar:      20000,
		RangeDataNtfAoaAzimuthLower:   fira.AoaAzimuthLowerDefault,
		RangeDataNtfAoaAzimuthUpper:   fira.AoaAzimuthUpperDefault,
		RangeDataNtfAoaElevationLower: fira.AoaElevationLowerDefault,
		RangeDataNtfAoaElevationUpper: fira.AoaElevationUpperDefault,
	}}
}

// RangeDataNtf sets the notification config and proximity bounds.
func (b *OpenRangingBuilder) RangeDataNtf(cfg fira.RangeDataNtfConfig, near, far uint16) *OpenRangingBuilder {
	b.p.RangeDataNtfConfig = cfg
	b.p.RangeDataNtfProximityNear = near
	b.p.RangeDataNtfProximityFar = far
	return b
}

func (b *OpenRangingBuilder) ProtocolVersion(v ProtocolVersion) *OpenRangingBuilder {
	b.p.ProtocolVersion = v
	b.set.version = true
	return b
}

func (b *OpenRangingBuilder) SessionID(id uint32) *OpenRangingBuilder {
	b.p.SessionID = id
	b.set.sessionID = true
	return b
}

func (b *OpenRangingBuilder) UwbConfig(c UwbConfig) *OpenRangingBuilder {
	b.p.UwbConfig = c
	b.set.uwbConfig = true
	return b
}

func (b *OpenRangingBuilder) PulseShapeCombo(c PulseShapeCombo) *OpenRangingBuilder {
	b.p.PulseShapeCombo = c
	b.set.combo = true
	return b
}

func (b *OpenRangingBuilder) RanMultiplier(m uint32) *OpenRangingBuilder {
	b.p.RanMultiplier = m
	b.set.ran = true
	return b
}

func (b *OpenRangingBuilder) Channel(ch uint8) *OpenRangingBuilder {
	b.p.Channel = ch
	b.set.channel = true
	return b
}

func (b *OpenRangingBuilder) NumChapsPerSlot(n uint8) *OpenRangingBuilder {
	b.p.NumChapsPerSlot = n
	b.set.chaps = true
	return b
}

func (b *OpenRangingBuilder) NumResponderNodes(n uint8) *OpenRangingBuilder {
	b.p.NumResponderNodes = n
	b.set.nodes = true
	return b
}

func (b *OpenRangingBuilder) NumSlotsPerRound(n uint8) *OpenRangingBuilder {
	b.p.NumSlotsPerRound = n
	b.set.slots = true
	return b
}

func (b *OpenRangingBuilder) SyncCodeIndex(i uint8) *OpenRangingBuilder {
	b.p.SyncCodeIndex = i
	b.set.syncCode = true
	return b
}

func (b *OpenRangingBuilder) Hopping(mode HoppingConfigMode, seq HoppingSequence) *OpenRangingBuilder {
	b.p.HoppingConfigMode = mode
	b.p.HoppingSequence = seq
	return b
}

func (b *OpenRangingBuilder) StsIndex(i int32) *OpenRangingBuilder {
	b.p.StsIndex = i
	return b
}

func (b *OpenRangingBuilder) InitiationTimeMs(t uint64) *OpenRangingBuilder {
	b.p.InitiationTimeMs = t
	return b
}

func (b *OpenRangingBuilder) AbsoluteInitiationTimeUs(t uint64) *OpenRangingBuilder {
	b.p.AbsoluteInitiationTimeUs = t
	return b
}

// Build validates and returns the parameters.
func (b *OpenRangingBuilder) Build() (*OpenRangingParams, error) {
	switch {
	case !b.set.version:
		return nil, fmt.Errorf("%w: protocol version", ErrMissingRequired)
	case !b.set.sessionID:
		return nil, fmt.Errorf("%w: session ID", ErrMissingRequired)
	case !b.set.uwbConfig:
		return nil, fmt.Errorf("%w: uwb config", ErrMissingRequired)
	case !b.set.combo:
		return nil, fmt.Errorf("%w: pulse shape combo", ErrMissingRequired)
	case !b.set.ran:
		return nil, fmt.Errorf("%w: ran multiplier", ErrMissingRequired)
	case !b.set.channel:
		return nil, fmt.Errorf("%w: channel", ErrMissingRequired)
	case !b.set.chaps:
		return nil, fmt.Errorf("%w: chaps per slot", ErrMissingRequired)
	case !b.set.nodes:
		return nil, fmt.Errorf("%w: responder nodes", ErrMissingRequired)
	case !b.set.slots:
		return nil, fmt.Errorf("%w: slots per round", ErrMissingRequired)
	case !b.set.syncCode:
		return nil, fmt.Errorf("%w: sync code index", ErrMissingRequired)
	}

	p := b.p
	if p.Channel != 5 && p.Channel != 9 {
		return nil, fmt.Errorf("%w: channel %d", ErrInvalidParam, p.Channel)
	}
	if p.SyncCodeIndex < 1 || p.SyncCodeIndex > 32 {
		return nil, fmt.Errorf("%w: sync code index %d", ErrInvalidParam, p.SyncCodeIndex)
	}
	return &p, nil
}

// StartRangingParams overrides session timing at ranging start. Zero
// fields keep the values from the open.
type StartRangingParams struct {
	RanMultiplier            uint32
	InitiationTimeMs         uint64
	AbsoluteInitiationTimeUs uint64
	// StsIndex is the starting STS index, StsIndexUnset when absent.
	StsIndex int32
}

// Apply folds the overrides into session parameters.
func (p *StartRangingParams) Apply(open *OpenRangingParams) {
	if p.RanMultiplier != 0 {
		open.RanMultiplier = p.RanMultiplier
	}
	if p.InitiationTimeMs != 0 {
		open.InitiationTimeMs = p.InitiationTimeMs
	}
	if p.AbsoluteInitiationTimeUs != 0 {
		open.AbsoluteInitiationTimeUs = p.AbsoluteInitiationTimeUs
	}
	if p.StsIndex != StsIndexUnset && p.StsIndex != 0 {
		open.StsIndex = p.StsIndex
	}
}

// RangingStartedParams is the controller's response to a successful
// CCC ranging start.
type RangingStartedParams struct {
	StartingStsIndex int32
	HopModeKey       uint32
	UwbTime0         uint64
	RanMultiplier    uint32
	SyncCodeIndex    uint8
}
