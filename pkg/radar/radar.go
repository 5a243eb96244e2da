// Package radar defines parameter types for UWB radar sessions.
package radar

import (
	"errors"
	"fmt"

	"github.com/openuwb/uwb/pkg/fira"
)

// Errors returned by parameter builders.
var (
	ErrMissingRequired = errors.New("radar: missing required parameter")
)

// BitsPerSample selects the radar sweep sample width.
type BitsPerSample uint8

const (
	BitsPerSample32 BitsPerSample = 0
	BitsPerSample48 BitsPerSample = 1
	BitsPerSample64 BitsPerSample = 2
)

// DataType selects what the radar session reports.
type DataType uint8

const (
	DataTypeRadarSweepSamples DataType = 0
)

// PreambleDuration values for radar sessions.
const (
	PreambleDurationT16384Symbols uint8 = 9
)

// CapabilityFlags holds radar device capabilities.
type CapabilityFlags uint8

const (
	CapRadarSweepSamplesSupport CapabilityFlags = 1 << 0
)

// Has reports whether all flags in f are set.
func (c CapabilityFlags) Has(f CapabilityFlags) bool { return c&f == f }

// OpenSessionParams configures a radar session.
type OpenSessionParams struct {
	SessionID uint32

	// Timing: burst period (ms), sweep period (RSTU), sweeps per burst.
	BurstPeriodMs  uint32
	SweepPeriod    uint16
	SweepsPerBurst uint8

	SamplesPerSweep   uint8
	Channel           uint8
	SweepOffset       int16
	RframeConfig      fira.RframeConfig
	PreambleDuration  uint8
	PreambleCodeIndex uint8
	SessionPriority   uint8
	BitsPerSample     BitsPerSample
	PrfMode           fira.PrfMode
	NumberOfBursts    uint16
	DataType          DataType
}

// OpenSessionBuilder assembles OpenSessionParams.
type OpenSessionBuilder struct {
	p   OpenSessionParams
	set struct {
		sessionID bool
		timing    bool
		channel   bool
	}
}

// NewOpenSessionBuilder creates a builder with default optional values.
func NewOpenSessionBuilder() *OpenSessionBuilder {
	return &OpenSessionBuilder{p: OpenSessionParams{
		SamplesPerSweep:   64,
		RframeConfig:      fira.RframeSP3,
		PreambleCodeIndex: 10,
		SessionPriority:   50,
	}}
}

func (b *OpenSessionBuilder) SessionID(id uint32) *OpenSessionBuilder {
	b.p.SessionID = id
	b.set.sessionID = true
	return b
}

// Timing sets the burst period, sweep period and sweeps per burst.
func (b *OpenSessionBuilder) Timing(burstPeriodMs uint32, sweepPeriod uint16, sweepsPerBurst uint8) *OpenSessionBuilder {
	b.p.BurstPeriodMs = burstPeriodMs
	b.p.SweepPeriod = sweepPeriod
	b.p.SweepsPerBurst = sweepsPerBurst
	b.set.timing = true
	return b
}

func (b *OpenSessionBuilder) Channel(ch uint8) *OpenSessionBuilder {
	b.p.Channel = ch
	b.set.channel = true
	return b
}

// Set applies fn to the parameters under construction.
func (b *OpenSessionBuilder) Set(fn func(*OpenSessionParams)) *OpenSessionBuilder {
	fn(&b.p)
	return b
}

// Build validates and returns the parameters.
func (b *OpenSessionBuilder) Build() (*OpenSessionParams, error) {
	switch {
	case !b.set.sessionID:
		return nil, fmt.Errorf("%w: session ID", ErrMissingRequired)
	case !b.set.timing:
		return nil, fmt.Errorf("%w: radar timing", ErrMissingRequired)
	case !b.set.channel:
		return nil, fmt.Errorf("%w: channel", ErrMissingRequired)
	}
	p := b.p
	return &p, nil
}

// SpecificationParams is the decoded radar capability set of a device.
type SpecificationParams struct {
	Capabilities CapabilityFlags
}
