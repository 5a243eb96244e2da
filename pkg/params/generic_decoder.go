package params

import (
	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/generic"
	"github.com/openuwb/uwb/pkg/tlv"
)

// GenericDecoder decodes a combined capability blob covering every
// protocol the device supports. A protocol whose records are absent
// leaves a nil sub-specification rather than failing the whole decode.
type GenericDecoder struct {
	fira  *FiraDecoder
	ccc   *CccDecoder
	radar *RadarDecoder
	log   logging.LeveledLogger
}

// NewGenericDecoder creates a GenericDecoder.
func NewGenericDecoder(cfg DeviceConfig, loggerFactory logging.LoggerFactory) *GenericDecoder {
	return &GenericDecoder{
		fira:  NewFiraDecoder(),
		ccc:   NewCccDecoder(cfg),
		radar: NewRadarDecoder(),
		log:   loggerFactory.NewLogger("params"),
	}
}

// Specification decodes the combined capability blob.
func (d *GenericDecoder) Specification(tlvs *tlv.DecoderBuffer) (*generic.SpecificationParams, error) {
	p := &generic.SpecificationParams{}

	firaSpec, err := d.fira.Specification(tlvs)
	if err != nil {
		d.log.Errorf("failed to decode FiRa capabilities: %v", err)
	} else {
		p.Fira = firaSpec
	}

	cccSpec, err := d.ccc.Specification(tlvs)
	if err != nil {
		d.log.Errorf("failed to decode CCC capabilities: %v", err)
	} else {
		p.Ccc = cccSpec
	}

	radarSpec, err := d.radar.Specification(tlvs)
	if err != nil {
		d.log.Debugf("failed to decode radar capabilities: %v", err)
	} else {
		p.Radar = radarSpec
	}

	if v, err := tlvs.Uint8(capPowerStatsQuery); err == nil && v != 0 {
		p.HasPowerStatsSupport = true
	}
	return p, nil
}

// Capabilities implements Decoder.
func (d *GenericDecoder) Capabilities(tlvs *tlv.DecoderBuffer) (any, error) {
	return d.Specification(tlvs)
}
