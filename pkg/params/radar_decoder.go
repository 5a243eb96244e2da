package params

import (
	"fmt"

	"github.com/openuwb/uwb/pkg/radar"
	"github.com/openuwb/uwb/pkg/tlv"
)

// RadarDecoder decodes radar capability TLVs.
type RadarDecoder struct{}

// NewRadarDecoder creates a RadarDecoder.
func NewRadarDecoder() *RadarDecoder {
	return &RadarDecoder{}
}

// Specification decodes the radar capability record.
func (d *RadarDecoder) Specification(tlvs *tlv.DecoderBuffer) (*radar.SpecificationParams, error) {
	caps, err := tlvs.Uint8(capRadarSupport)
	if err != nil {
		return nil, fmt.Errorf("%w: radar support: %w", ErrDecode, err)
	}
	p := &radar.SpecificationParams{}
	if radar.CapabilityFlags(caps).Has(radar.CapRadarSweepSamplesSupport) {
		p.Capabilities |= radar.CapRadarSweepSamplesSupport
	}
	return p, nil
}

// Capabilities implements Decoder.
func (d *RadarDecoder) Capabilities(tlvs *tlv.DecoderBuffer) (any, error) {
	return d.Specification(tlvs)
}
