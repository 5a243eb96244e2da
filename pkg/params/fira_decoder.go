package params

import (
	"encoding/binary"
	"fmt"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

// firaCapTags maps one capability record layout. The FiRa 1.x and 2.0
// layouts carry the same records under different tags.
type firaCapTags struct {
	phyVersionRange  uint8
	macVersionRange  uint8
	deviceRoles      uint8
	rangingMethod    uint8
	stsConfig        uint8
	multiNode        uint8
	rangingTimeStruct uint8
	scheduledMode    uint8
	hoppingMode      uint8
	blockStriding    uint8
	initiationTime   uint8
	channels         uint8
	rframeConfig     uint8
	ccConstraint     uint8
	bprfSets         uint8
	hprfSets         uint8
	aoa              uint8
	extendedMac      uint8
	maxMessageSize   uint8
	maxDataPayload   uint8
}

var firaCapTagsV1 = firaCapTags{
	phyVersionRange:   capV1PhyVersionRange,
	macVersionRange:   capV1MacVersionRange,
	deviceRoles:       capV1DeviceRoles,
	rangingMethod:     capV1RangingMethod,
	stsConfig:         capV1StsConfig,
	multiNode:         capV1MultiNode,
	rangingTimeStruct: capV1RangingTimeStruct,
	scheduledMode:     capV1ScheduledMode,
	hoppingMode:       capV1HoppingMode,
	blockStriding:     capV1BlockStriding,
	initiationTime:    capV1UwbInitiationTime,
	channels:          capV1Channels,
	rframeConfig:      capV1RframeConfig,
	ccConstraint:      capV1CcConstraintLength,
	bprfSets:          capV1BprfParameterSets,
	hprfSets:          capV1HprfParameterSets,
	aoa:               capV1AoaSupport,
	extendedMac:       capV1ExtendedMacAddress,
	maxMessageSize:    capV1MaxMessageSize,
	maxDataPayload:    capV1MaxDataPayloadSize,
}

var firaCapTagsV2 = firaCapTags{
	phyVersionRange:   capV2PhyVersionRange,
	macVersionRange:   capV2MacVersionRange,
	deviceRoles:       capV2DeviceRoles,
	rangingMethod:     capV2RangingMethod,
	stsConfig:         capV2StsConfig,
	multiNode:         capV2MultiNode,
	rangingTimeStruct: capV2RangingTimeStruct,
	scheduledMode:     capV2ScheduledMode,
	hoppingMode:       capV2HoppingMode,
	blockStriding:     capV2BlockStriding,
	initiationTime:    capV2UwbInitiationTime,
	channels:          capV2Channels,
	rframeConfig:      capV2RframeConfig,
	ccConstraint:      capV2CcConstraintLength,
	bprfSets:          capV2BprfParameterSets,
	hprfSets:          capV2HprfParameterSets,
	aoa:               capV2AoaSupport,
	extendedMac:       capV2ExtendedMacAddress,
	maxMessageSize:    capV2MaxMessageSize,
	maxDataPayload:    capV2MaxDataPayloadSize,
}

// FiraDecoder decodes FiRa capability TLVs.
type FiraDecoder struct{}

// NewFiraDecoder creates a FiraDecoder.
func NewFiraDecoder() *FiraDecoder {
	return &FiraDecoder{}
}

// Specification decodes a device capability blob. The record layout
// version is detected from tag 0x00, which is the 4-byte PHY version
// range in the 1.x layout and a scalar in the 2.0 layout.
func (d *FiraDecoder) Specification(tlvs *tlv.DecoderBuffer) (*fira.SpecificationParams, error) {
	tags := firaCapTagsV2
	v2 := true
	if v, err := tlvs.Bytes(capV1PhyVersionRange); err == nil && len(v) == 4 {
		tags = firaCapTagsV1
		v2 = false
	}

	p := &fira.SpecificationParams{}

	phy, err := tlvs.Bytes(tags.phyVersionRange)
	if err != nil {
		return nil, fmt.Errorf("%w: phy version range: %w", ErrDecode, err)
	}
	if p.MinPhyVersion, err = fira.VersionFromBytes(phy, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if p.MaxPhyVersion, err = fira.VersionFromBytes(phy, 2); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	mac, err := tlvs.Bytes(tags.macVersionRange)
	if err != nil {
		return nil, fmt.Errorf("%w: mac version range: %w", ErrDecode, err)
	}
	if p.MinMacVersion, err = fira.VersionFromBytes(mac, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if p.MaxMacVersion, err = fira.VersionFromBytes(mac, 2); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	roles, err := capMask16(tlvs, tags.deviceRoles)
	if err != nil {
		return nil, fmt.Errorf("%w: device roles: %w", ErrDecode, err)
	}
	p.DeviceRoles = fira.RoleFlags(roles)
	// The role record does not split controller from controlee; a
	// reported role is assumed to hold for both.
	if p.DeviceRoles.Has(fira.RoleCapInitiator) {
		p.HasControllerInitiatorSupport = true
		p.HasControleeInitiatorSupport = true
	}
	if p.DeviceRoles.Has(fira.RoleCapResponder) {
		p.HasControllerResponderSupport = true
		p.HasControleeResponderSupport = true
	}

	methods, err := capMask16(tlvs, tags.rangingMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: ranging method: %w", ErrDecode, err)
	}
	if v2 {
		p.RangingMethods = fira.RangingMethodFlags(methods)
	} else {
		// The 1.x record only distinguishes the deferred TWR modes.
		p.RangingMethods = fira.RangingMethodFlags(methods) &
			(fira.MethodSsTwrDeferred | fira.MethodDsTwrDeferred)
	}
	p.HasNonDeferredModeSupport = fira.RangingMethodFlags(methods).HasNonDeferredMode()

	sts, err := tlvs.Uint8(tags.stsConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: sts config: %w", ErrDecode, err)
	}
	p.StsCaps = fira.StsFlags(sts)

	multiNode, err := tlvs.Uint8(tags.multiNode)
	if err != nil {
		return nil, fmt.Errorf("%w: multi node modes: %w", ErrDecode, err)
	}
	p.MultiNodeCaps = fira.MultiNodeFlags(multiNode)

	timeStruct, err := tlvs.Uint8(tags.rangingTimeStruct)
	if err != nil {
		return nil, fmt.Errorf("%w: ranging time struct: %w", ErrDecode, err)
	}
	p.TimeStructCaps = fira.TimeStructFlags(timeStruct)

	sched, err := tlvs.Uint8(tags.scheduledMode)
	if err != nil {
		return nil, fmt.Errorf("%w: scheduled mode: %w", ErrDecode, err)
	}
	p.SchedulingCaps = fira.SchedulingFlags(sched)

	hopping, err := tlvs.Uint8(tags.hoppingMode)
	if err != nil {
		return nil, fmt.Errorf("%w: hopping mode: %w", ErrDecode, err)
	}
	p.HasHoppingSupport = hopping&0x01 != 0

	blockStriding, err := tlvs.Uint8(tags.blockStriding)
	if err != nil {
		return nil, fmt.Errorf("%w: block striding: %w", ErrDecode, err)
	}
	p.HasBlockStridingSupport = blockStriding&0x01 != 0

	initTime, err := tlvs.Uint8(tags.initiationTime)
	if err != nil {
		return nil, fmt.Errorf("%w: initiation time: %w", ErrDecode, err)
	}
	p.HasInitiationTimeSupport = initTime&0x01 != 0

	channels, err := tlvs.Uint8(tags.channels)
	if err != nil {
		return nil, fmt.Errorf("%w: channels: %w", ErrDecode, err)
	}
	p.Channels = fira.ChannelsFromMask(channels)

	rframe, err := tlvs.Uint8(tags.rframeConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: rframe config: %w", ErrDecode, err)
	}
	p.RframeCaps = fira.RframeFlags(rframe)

	ccConstraint, err := tlvs.Uint8(tags.ccConstraint)
	if err != nil {
		return nil, fmt.Errorf("%w: cc constraint length: %w", ErrDecode, err)
	}
	p.CcConstraints = fira.CcConstraintFlags(ccConstraint)

	bprf, err := tlvs.Uint8(tags.bprfSets)
	if err != nil {
		return nil, fmt.Errorf("%w: bprf parameter sets: %w", ErrDecode, err)
	}
	p.BprfSets = fira.BprfFlags(bprf)

	hprf, err := tlvs.Bytes(tags.hprfSets)
	if err != nil {
		return nil, fmt.Errorf("%w: hprf parameter sets: %w", ErrDecode, err)
	}
	if len(hprf) > 8 {
		return nil, fmt.Errorf("%w: hprf parameter sets: %d bytes", ErrDecode, len(hprf))
	}
	var hprfBuf [8]byte
	copy(hprfBuf[:], hprf)
	p.HprfSets = fira.HprfFlags(binary.LittleEndian.Uint64(hprfBuf[:]))

	if p.BprfSets != 0 {
		p.PrfCaps |= fira.PrfCapBprf
	}
	if p.HprfSets != 0 {
		p.PrfCaps |= fira.PrfCapHprf
	}

	// PSDU data rates follow from the constraint lengths and PRF modes:
	// K3 carries 6.81/27.2 Mbps, K7 carries 7.80/31.2 Mbps.
	if p.CcConstraints.Has(fira.CcConstraintK3) && p.PrfCaps.Has(fira.PrfCapBprf) {
		p.PsduRates |= fira.PsduCap6M81
	}
	if p.CcConstraints.Has(fira.CcConstraintK7) && p.PrfCaps.Has(fira.PrfCapBprf) {
		p.PsduRates |= fira.PsduCap7M80
	}
	if p.CcConstraints.Has(fira.CcConstraintK3) && p.PrfCaps.Has(fira.PrfCapHprf) {
		p.PsduRates |= fira.PsduCap27M2
	}
	if p.CcConstraints.Has(fira.CcConstraintK7) && p.PrfCaps.Has(fira.PrfCapHprf) {
		p.PsduRates |= fira.PsduCap31M2
	}

	aoa, err := tlvs.Uint8(tags.aoa)
	if err != nil {
		return nil, fmt.Errorf("%w: aoa: %w", ErrDecode, err)
	}
	p.AoaCaps = fira.AoaFlags(aoa)

	extendedMac, err := tlvs.Uint8(tags.extendedMac)
	if err != nil {
		return nil, fmt.Errorf("%w: extended mac: %w", ErrDecode, err)
	}
	p.HasExtendedMacSupport = extendedMac&0x01 != 0

	if v2 {
		deviceType, err := tlvs.Uint8(capV2DeviceType)
		if err != nil {
			return nil, fmt.Errorf("%w: device type: %w", ErrDecode, err)
		}
		p.DeviceType = fira.DeviceType(deviceType)

		suspend, err := tlvs.Uint8(capV2SuspendRanging)
		if err != nil {
			return nil, fmt.Errorf("%w: suspend ranging: %w", ErrDecode, err)
		}
		p.HasSuspendRangingSupport = suspend&0x01 != 0

		keyLen, err := tlvs.Uint8(capV2SessionKeyLength)
		if err != nil {
			return nil, fmt.Errorf("%w: session key length: %w", ErrDecode, err)
		}
		p.SessionKeyLength = fira.SessionKeyLength(keyLen)
	}

	// Vendor and sizing records are optional; absent or oddly sized
	// records leave the zero value.
	if v, err := tlvs.Uint8(capAoaResultInterleaving); err == nil {
		p.HasInterleavingSupport = v&0x01 != 0
	}
	if v, err := tlvs.Uint8(capRssiReporting); err == nil {
		p.HasRssiReportingSupport = v&0x01 != 0
	}
	if v, err := tlvs.Uint8(capDiagnostics); err == nil {
		p.HasDiagnosticsSupport = v&0x01 != 0
	}
	if v, err := tlvs.Uint32(capMinRangingIntervalMs); err == nil {
		p.MinRangingIntervalMs = v
	}
	if v, err := tlvs.Uint32(capMinSlotDurationRstu); err == nil {
		p.MinSlotDurationRstu = v
	}
	if v, err := tlvs.Uint32(capMaxRangingSessionNum); err == nil {
		p.MaxRangingSessionNumber = v
	}
	if v, err := capMask32(tlvs, capRangeDataNtfConfig); err == nil {
		p.NtfConfigCaps = fira.NtfConfigFlags(v)
	}
	if v, err := tlvs.Uint16(tags.maxMessageSize); err == nil {
		p.MaxMessageSize = v
	}
	if v, err := tlvs.Uint16(tags.maxDataPayload); err == nil {
		p.MaxDataPacketPayloadSize = v
	}
	return p, nil
}

// capMask16 reads a bitmask record of one or two bytes, little-endian.
func capMask16(tlvs *tlv.DecoderBuffer, tag uint8) (uint16, error) {
	v, err := tlvs.Bytes(tag)
	if err != nil {
		return 0, err
	}
	switch len(v) {
	case 1:
		return uint16(v[0]), nil
	case 2:
		return binary.LittleEndian.Uint16(v), nil
	default:
		return 0, fmt.Errorf("%w: tag 0x%02X has %d bytes", tlv.ErrWrongLength, tag, len(v))
	}
}

// capMask32 reads a bitmask record of up to four bytes, little-endian.
func capMask32(tlvs *tlv.DecoderBuffer, tag uint8) (uint32, error) {
	v, err := tlvs.Bytes(tag)
	if err != nil {
		return 0, err
	}
	if len(v) > 4 {
		return 0, fmt.Errorf("%w: tag 0x%02X has %d bytes", tlv.ErrWrongLength, tag, len(v))
	}
	var buf [4]byte
	copy(buf[:], v)
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Capabilities implements Decoder.
func (d *FiraDecoder) Capabilities(tlvs *tlv.DecoderBuffer) (any, error) {
	return d.Specification(tlvs)
}
