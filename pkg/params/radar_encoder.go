package params

import (
	"encoding/binary"
	"fmt"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/radar"
	"github.com/openuwb/uwb/pkg/tlv"
)

// RadarEncoder encodes radar session parameters to app config TLVs.
type RadarEncoder struct{}

// NewRadarEncoder creates a RadarEncoder.
func NewRadarEncoder() *RadarEncoder {
	return &RadarEncoder{}
}

// Encode dispatches on the parameter type.
func (e *RadarEncoder) Encode(p any, _ fira.ProtocolVersion) (*tlv.Buffer, error) {
	params, ok := p.(*radar.OpenSessionParams)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedParams, p)
	}
	return e.OpenSession(params)
}

// OpenSession encodes the session configuration. The timing record
// packs burst period, sweep period and sweeps per burst into one value.
func (e *RadarEncoder) OpenSession(p *radar.OpenSessionParams) (*tlv.Buffer, error) {
	timing := make([]byte, 7)
	binary.LittleEndian.PutUint32(timing[0:4], p.BurstPeriodMs)
	binary.LittleEndian.PutUint16(timing[4:6], p.SweepPeriod)
	timing[6] = p.SweepsPerBurst

	return tlv.NewBuilder().
		PutBytes(tagRadarTimingParams, timing).
		PutUint8(tagRadarSamplesPerSweep, p.SamplesPerSweep).
		PutUint8(tagRadarChannelNumber, p.Channel).
		PutInt16(tagRadarSweepOffset, p.SweepOffset).
		PutUint8(tagRadarRframeConfig, uint8(p.RframeConfig)).
		PutUint8(tagRadarPreambleDuration, p.PreambleDuration).
		PutUint8(tagRadarPreambleCodeIndex, p.PreambleCodeIndex).
		PutUint8(tagRadarSessionPriority, p.SessionPriority).
		PutUint8(tagRadarBitsPerSample, uint8(p.BitsPerSample)).
		PutUint8(tagRadarPrfMode, uint8(p.PrfMode)).
		PutUint16(tagRadarNumberOfBursts, p.NumberOfBursts).
		PutUint8(tagRadarDataType, uint8(p.DataType)).
		Build()
}
