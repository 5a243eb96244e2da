package params

import (
	"encoding/binary"
	"fmt"

	"github.com/openuwb/uwb/pkg/ccc"
	"github.com/openuwb/uwb/pkg/tlv"
)

// CccDecoder decodes CCC capability and ranging response TLVs.
type CccDecoder struct {
	cfg DeviceConfig
}

// NewCccDecoder creates a CccDecoder.
func NewCccDecoder(cfg DeviceConfig) *CccDecoder {
	return &CccDecoder{cfg: cfg}
}

// RangingStarted decodes the session config reported after a CCC
// session opens. The hop mode key record is 16 bytes; the key is its
// first word.
func (d *CccDecoder) RangingStarted(tlvs *tlv.DecoderBuffer) (*ccc.RangingStartedParams, error) {
	stsIndex, err := tlvs.Uint32(tagStsIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: sts index: %w", ErrDecode, err)
	}
	hopModeKey, err := tlvs.Bytes(tagCccHopModeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: hop mode key: %w", ErrDecode, err)
	}
	if len(hopModeKey) < 4 {
		return nil, fmt.Errorf("%w: hop mode key has %d bytes", ErrDecode, len(hopModeKey))
	}
	uwbTime0, err := tlvs.Uint64(tagCccUwbTime0)
	if err != nil {
		return nil, fmt.Errorf("%w: uwb time0: %w", ErrDecode, err)
	}
	rangingInterval, err := tlvs.Uint32(tagRangingInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: ranging interval: %w", ErrDecode, err)
	}
	syncCodeIndex, err := tlvs.Uint8(tagPreambleCodeIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: sync code index: %w", ErrDecode, err)
	}
	return &ccc.RangingStartedParams{
		StartingStsIndex: int32(stsIndex),
		HopModeKey:       binary.LittleEndian.Uint32(hopModeKey[:4]),
		UwbTime0:         uwbTime0,
		RanMultiplier:    rangingInterval / ccc.RanMultiplierToIntervalMs,
		SyncCodeIndex:    syncCodeIndex,
	}, nil
}

// Specification decodes a CCC capability blob.
func (d *CccDecoder) Specification(tlvs *tlv.DecoderBuffer) (*ccc.SpecificationParams, error) {
	p := &ccc.SpecificationParams{}

	chaps, err := tlvs.Uint8(capCccChapsPerSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: chaps per slot: %w", ErrDecode, err)
	}
	p.ChapsPerSlot = ccc.ChapsPerSlotFromMask(chaps)

	syncCodes, err := tlvs.Bytes(capCccSyncCodes)
	if err != nil {
		return nil, fmt.Errorf("%w: sync codes: %w", ErrDecode, err)
	}
	if len(syncCodes) != 4 {
		return nil, fmt.Errorf("%w: sync codes have %d bytes", ErrDecode, len(syncCodes))
	}
	var syncMask uint32
	if d.cfg.CccSyncCodesLittleEndian {
		syncMask = binary.LittleEndian.Uint32(syncCodes)
	} else {
		syncMask = binary.BigEndian.Uint32(syncCodes)
	}
	for i := 0; i < 32; i++ {
		if syncMask&(1<<i) != 0 {
			p.SyncCodes = append(p.SyncCodes, i+1)
		}
	}

	// The hopping record is optional in a capability blob that carries
	// prioritized channels instead of the plain channel mask.
	if hopping, err := tlvs.Uint8(capCccHoppingConfigModes); err == nil {
		if hopping&ccc.HoppingCapNone != 0 {
			p.HoppingConfigModes = append(p.HoppingConfigModes, ccc.HoppingConfigModeNone)
		}
		if hopping&ccc.HoppingCapContinuous != 0 {
			p.HoppingConfigModes = append(p.HoppingConfigModes, ccc.HoppingConfigModeContinuous)
		}
		if hopping&ccc.HoppingCapAdaptive != 0 {
			p.HoppingConfigModes = append(p.HoppingConfigModes, ccc.HoppingConfigModeAdaptive)
		}
		if hopping&ccc.HoppingCapDefaultSeq != 0 {
			p.HoppingSequences = append(p.HoppingSequences, ccc.HoppingSequenceDefault)
		}
		if hopping&ccc.HoppingCapAesSeq != 0 {
			p.HoppingSequences = append(p.HoppingSequences, ccc.HoppingSequenceAes)
		}
	}

	if channels, err := tlvs.Uint8(capCccChannels); err == nil {
		p.Channels = ccc.ChannelsFromMask(channels)
	}

	versions, err := tlvs.Bytes(capCccVersions)
	if err != nil {
		return nil, fmt.Errorf("%w: versions: %w", ErrDecode, err)
	}
	if len(versions)%2 != 0 {
		return nil, fmt.Errorf("%w: versions have %d bytes", ErrDecode, len(versions))
	}
	for i := 0; i < len(versions); i += 2 {
		p.ProtocolVersions = append(p.ProtocolVersions, ccc.ProtocolVersion{
			Major: versions[i],
			Minor: versions[i+1],
		})
	}

	configs, err := tlvs.Bytes(capCccUwbConfigs)
	if err != nil {
		return nil, fmt.Errorf("%w: uwb configs: %w", ErrDecode, err)
	}
	for _, c := range configs {
		p.UwbConfigs = append(p.UwbConfigs, ccc.UwbConfig(c))
	}

	combos, err := tlvs.Bytes(capCccPulseShapeCombos)
	if err != nil {
		return nil, fmt.Errorf("%w: pulse shape combos: %w", ErrDecode, err)
	}
	for _, c := range combos {
		p.PulseShapeCombos = append(p.PulseShapeCombos, ccc.PulseShapeComboFromByte(c))
	}

	ranMultiplier, err := tlvs.Uint32(capCccRanMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: ran multiplier: %w", ErrDecode, err)
	}
	p.RanMultiplier = ranMultiplier

	if v, err := tlvs.Uint32(capCccMaxRangingSessions); err == nil {
		p.MaxRangingSessionNumber = v
	}
	if v, err := tlvs.Uint32(capCccMinUwbInitiationTime); err == nil {
		p.MinUwbInitiationTimeMs = v
	}
	if v, err := tlvs.Bytes(capCccPrioritizedChannels); err == nil {
		for _, ch := range v {
			p.PrioritizedChannels = append(p.PrioritizedChannels, int(ch))
		}
	}
	return p, nil
}

// Capabilities implements Decoder.
func (d *CccDecoder) Capabilities(tlvs *tlv.DecoderBuffer) (any, error) {
	return d.Specification(tlvs)
}
