package params

import (
	"fmt"

	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

// CccEncoder encodes CCC session parameters to app config TLVs.
// The CCC profile pins the local device to controller/initiator of a
// one-to-many dynamic-STS session, so those records are constant.
type CccEncoder struct {
	cfg DeviceConfig
}

// NewCccEncoder creates a CccEncoder.
func NewCccEncoder(cfg DeviceConfig) *CccEncoder {
	return &CccEncoder{cfg: cfg}
}

// Encode dispatches on the parameter type.
func (e *CccEncoder) Encode(p any, _ fira.ProtocolVersion) (*tlv.Buffer, error) {
	params, ok := p.(*ccc.OpenRangingParams)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedParams, p)
	}
	return e.OpenRanging(params)
}

// OpenRanging encodes the session configuration.
func (e *CccEncoder) OpenRanging(p *ccc.OpenRangingParams) (*tlv.Buffer, error) {
	b := tlv.NewBuilder().
		PutUint8(tagDeviceType, uint8(fira.DeviceTypeController)).
		PutUint8(tagStsConfig, uint8(fira.StsConfigDynamic)).
		PutUint8(tagChannelNumber, p.Channel).
		PutUint8(tagNumberOfControlees, p.NumResponderNodes).
		PutUint32(tagRangingInterval, p.RanMultiplier*ccc.RanMultiplierToIntervalMs).
		PutUint8(tagDeviceRole, uint8(fira.RoleInitiator)).
		PutUint8(tagMultiNodeMode, uint8(fira.MultiNodeOneToMany)).
		PutUint8(tagSlotsPerRangingRound, p.NumSlotsPerRound).
		PutUint8(tagHoppingMode, ccc.HoppingModeByte(p.HoppingConfigMode, p.HoppingSequence)).
		// Protocol version goes out minor first.
		PutBytes(tagCccRangingProtocolVer, []byte{p.ProtocolVersion.Minor, p.ProtocolVersion.Major}).
		PutUint16(tagCccUwbConfigID, uint16(p.UwbConfig)).
		PutUint8(tagCccPulseShapeCombo, p.PulseShapeCombo.Byte()).
		PutUint16(tagCccUrskTTL, ccc.DefaultUrskTTL).
		PutUint16(tagSlotDuration, uint16(p.NumChapsPerSlot)*ccc.ChapsPerSlotToRstu).
		PutUint8(tagPreambleCodeIndex, p.SyncCodeIndex)

	if p.StsIndex != ccc.StsIndexUnset {
		b.PutInt32(tagStsIndex, p.StsIndex)
	}
	if p.AbsoluteInitiationTimeUs > 0 {
		b.PutUint64(tagUwbInitiationTime, p.AbsoluteInitiationTimeUs)
	} else if p.InitiationTimeMs != 0 {
		b.PutUint64(tagUwbInitiationTime, p.InitiationTimeMs)
	}

	if e.cfg.CccRangeDataNtfConfig {
		b.PutUint8(tagRangeDataNtfConfig, uint8(p.RangeDataNtfConfig)).
			PutUint16(tagNtfProximityNear, p.RangeDataNtfProximityNear).
			PutUint16(tagNtfProximityFar, p.RangeDataNtfProximityFar)
		if p.RangeDataNtfConfig.HasAoaBound() {
			b.PutBytes(tagRangeDataNtfAoaBound, aoaBound(
				p.RangeDataNtfAoaAzimuthLower, p.RangeDataNtfAoaAzimuthUpper,
				p.RangeDataNtfAoaElevationLower, p.RangeDataNtfAoaElevationUpper))
		}
	} else {
		b.PutUint8(tagRangeDataNtfConfig, uint8(fira.NtfConfigDisable))
	}
	return b.Build()
}
