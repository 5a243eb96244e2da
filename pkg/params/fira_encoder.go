package params

import (
	"fmt"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

// FiraEncoder encodes FiRa session parameters to app config TLVs.
type FiraEncoder struct {
	cfg DeviceConfig
}

// NewFiraEncoder creates a FiraEncoder.
func NewFiraEncoder(cfg DeviceConfig) *FiraEncoder {
	return &FiraEncoder{cfg: cfg}
}

// Encode dispatches on the parameter type.
func (e *FiraEncoder) Encode(p any, uwbsVersion fira.ProtocolVersion) (*tlv.Buffer, error) {
	switch params := p.(type) {
	case *fira.OpenSessionParams:
		return e.OpenSession(params, uwbsVersion)
	case *fira.RangingReconfigureParams:
		return e.Reconfigure(params)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedParams, p)
	}
}

// OpenSession encodes the full session configuration. Record order is
// fixed; conditional records depend on the role, scheduling, STS
// scheme and protocol version.
func (e *FiraEncoder) OpenSession(p *fira.OpenSessionParams, uwbsVersion fira.ProtocolVersion) (*tlv.Buffer, error) {
	b := tlv.NewBuilder().
		PutUint8(tagRangingRoundUsage, uint8(p.RangingRoundUsage)).
		PutUint8(tagStsConfig, uint8(p.StsConfig)).
		PutUint8(tagMultiNodeMode, uint8(p.MultiNodeMode)).
		PutUint8(tagChannelNumber, p.ChannelNumber).
		PutBytes(tagDeviceMacAddress, p.DeviceAddress).
		PutUint16(tagSlotDuration, p.SlotDurationRstu).
		PutUint8(tagMacFcsType, uint8(p.FcsType)).
		PutUint8(tagRangingRoundControl, rangingRoundControl(p)).
		PutUint8(tagAoaResultReq, uint8(p.AoaResultRequest)).
		PutUint8(tagRangeDataNtfConfig, uint8(p.RangeDataNtfConfig)).
		PutUint16(tagNtfProximityNear, p.RangeDataNtfProximityNear).
		PutUint16(tagNtfProximityFar, p.RangeDataNtfProximityFar).
		PutUint8(tagDeviceRole, uint8(p.DeviceRole)).
		PutUint8(tagRframeConfig, uint8(p.RframeConfig)).
		PutUint8(tagRssiReporting, boolByte(p.RssiReporting)).
		PutUint8(tagPreambleCodeIndex, p.PreambleCodeIndex).
		PutUint8(tagSfdID, p.SfdID).
		PutUint8(tagPsduDataRate, uint8(p.PsduDataRate)).
		PutUint8(tagPreambleDuration, uint8(p.PreambleDuration)).
		PutUint8(tagRangingTimeStruct, uint8(p.RangingTimeStruct)).
		PutUint8(tagSlotsPerRangingRound, p.SlotsPerRangingRound).
		PutUint8(tagPrfMode, uint8(p.PrfMode)).
		PutUint8(tagScheduledMode, uint8(p.SchedulingMode)).
		PutUint8(tagKeyRotation, boolByte(p.KeyRotation)).
		PutUint8(tagKeyRotationRate, p.KeyRotationRate).
		PutUint8(tagSessionPriority, p.SessionPriority).
		PutUint8(tagMacAddressMode, uint8(p.MacAddressMode)).
		PutUint8(tagNumberOfStsSegments, p.StsSegmentCount).
		PutUint16(tagMaxRangingRoundRetry, p.MaxRangingRoundRetries).
		PutUint8(tagHoppingMode, uint8(p.HoppingMode)).
		PutUint8(tagBlockStrideLength, p.BlockStrideLength).
		PutUint8(tagResultReportConfig, resultReportConfig(p)).
		PutUint8(tagInBandTerminationAttempts, p.InBandTerminationAttemptCount).
		PutUint8(tagBprfPhrDataRate, uint8(p.BprfPhrDataRate)).
		PutUint16(tagMaxNumberOfMeasurements, p.MaxNumberOfMeasurements).
		PutUint8(tagStsLength, uint8(p.StsLength))

	if p.DeviceRole != fira.RoleUtTag {
		b.PutUint32(tagRangingInterval, p.RangingIntervalMs)
	}
	if p.DeviceRole != fira.RoleDtTag {
		b.PutUint8(tagDeviceType, uint8(p.DeviceType))
	}

	if p.SchedulingMode == fira.SchedulingTime && p.RangingRoundUsage.IsTwr() &&
		len(p.DestAddressList) > 0 {
		var dst []byte
		for _, addr := range p.DestAddressList {
			dst = append(dst, addr...)
		}
		b.PutUint8(tagNumberOfControlees, uint8(len(p.DestAddressList))).
			PutBytes(tagDstMacAddress, dst)
	}

	version := p.ProtocolVersion
	if e.cfg.UseUwbsUciVersion {
		version = uwbsVersion
	}
	if version.Major >= 2 {
		// Initiation time widened from 4 to 8 bytes in version 2; the
		// absolute time is preferred when available.
		if p.DeviceRole != fira.RoleDtTag {
			if p.AbsoluteInitiationTimeUs > 0 {
				b.PutUint64(tagUwbInitiationTime, p.AbsoluteInitiationTimeUs)
			} else {
				b.PutUint64(tagUwbInitiationTime, p.InitiationTimeMs)
			}
		} else {
			b.PutUint8(tagDlTdoaBlockStriding, p.DlTdoaBlockStriding)
		}
		b.PutUint8(tagLinkLayerMode, uint8(p.LinkLayerMode)).
			PutUint8(tagDataRepetitionCount, p.DataRepetitionCount).
			PutUint8(tagSessionDataTransferNtf, boolByte(p.SessionDataTransferNtf)).
			PutUint8(tagApplicationDataEndpoint, uint8(p.ApplicationDataEndpoint))
		if p.DeviceType == fira.DeviceTypeController &&
			p.ReferenceTimeBase&fira.SessionTimeBaseFeature != 0 {
			b.PutBytes(tagSessionTimeBase, sessionTimeBase(p))
		}
	} else {
		if p.DeviceRole != fira.RoleDtTag {
			b.PutUint32(tagUwbInitiationTime, uint32(p.InitiationTimeMs))
		}
		b.PutUint8(tagTxAdaptivePayloadPower, boolByte(p.TxAdaptivePayloadPower))
	}

	e.putStsParameters(b, p)

	if p.AoaResultRequest == fira.AoaResultInterleaved {
		b.PutUint8(tagNumRangeMeasurements, p.MeasurementFocusRange).
			PutUint8(tagNumAoaAzimuth, p.MeasurementFocusAoaAzimuth).
			PutUint8(tagNumAoaElevation, p.MeasurementFocusAoaElevation)
	}
	if p.RangeDataNtfConfig.HasAoaBound() {
		b.PutBytes(tagRangeDataNtfAoaBound, aoaBound(
			p.RangeDataNtfAoaAzimuthLower, p.RangeDataNtfAoaAzimuthUpper,
			p.RangeDataNtfAoaElevationLower, p.RangeDataNtfAoaElevationUpper))
	}
	if p.DiagnosticsEnabled {
		b.PutUint8(tagEnableDiagnostics, 1).
			PutUint8(tagDiagramsFrameReports, p.DiagramsFrameReports)
	}
	if p.SchedulingMode == fira.SchedulingContention {
		b.PutBytes(tagCapSizeRange, p.CapSize[:])
	}
	if p.DeviceRole == fira.RoleUtTag {
		b.PutUint32(tagUlTdoaTxInterval, p.UlTdoaTxIntervalMs).
			PutUint32(tagUlTdoaRandomWindow, p.UlTdoaRandomWindowMs).
			PutBytes(tagUlTdoaDeviceID, ulTdoaDeviceID(p.UlTdoaDeviceIDType, p.UlTdoaDeviceID)).
			PutUint8(tagUlTdoaTxTimestamp, uint8(p.UlTdoaTxTimestampType))
	}
	if p.DeviceRole == fira.RoleAdvertiser || p.DeviceRole == fira.RoleObserver {
		b.PutUint8(tagMinFramesPerRangingRound, p.MinFramesPerRangingRound).
			PutUint16(tagMtuSize, p.MtuSize).
			PutUint8(tagInterFrameInterval, p.InterFrameInterval)
	}
	return b.Build()
}

func (e *FiraEncoder) putStsParameters(b *tlv.Builder, p *fira.OpenSessionParams) {
	switch p.StsConfig {
	case fira.StsConfigStatic:
		b.PutBytes(tagVendorID, p.VendorID).
			PutBytes(tagStaticStsIV, p.StaticStsIV)
	case fira.StsConfigDynamicIndividualKey:
		if p.DeviceType == fira.DeviceTypeControlee {
			b.PutUint32(tagSubSessionID, p.SubSessionID)
		}
	case fira.StsConfigProvisioned:
		if p.SessionKey != nil {
			b.PutBytes(tagSessionKey, p.SessionKey)
		}
	case fira.StsConfigProvisionedIndividualKey:
		if p.DeviceType == fira.DeviceTypeControlee {
			b.PutUint32(tagSubSessionID, p.SubSessionID)
			if p.SubSessionKey != nil {
				b.PutBytes(tagSubSessionKey, p.SubSessionKey)
			}
		}
		if p.SessionKey != nil {
			b.PutBytes(tagSessionKey, p.SessionKey)
		}
	}
}

// Reconfigure encodes a ranging reconfiguration: only present fields
// reach the wire, in fixed order.
func (e *FiraEncoder) Reconfigure(p *fira.RangingReconfigureParams) (*tlv.Buffer, error) {
	b := tlv.NewBuilder()
	if p.BlockStrideLength != nil {
		b.PutUint8(tagBlockStrideLength, *p.BlockStrideLength)
	}
	if p.RangeDataNtfConfig != nil {
		b.PutUint8(tagRangeDataNtfConfig, uint8(*p.RangeDataNtfConfig))
	}
	if p.RangeDataProximityNear != nil {
		b.PutUint16(tagNtfProximityNear, *p.RangeDataProximityNear)
	}
	if p.RangeDataProximityFar != nil {
		b.PutUint16(tagNtfProximityFar, *p.RangeDataProximityFar)
	}
	if p.RangeDataNtfConfig != nil && p.RangeDataNtfConfig.HasAoaBound() {
		hasAzimuth := p.AoaAzimuthLower != nil && p.AoaAzimuthUpper != nil
		hasElevation := p.AoaElevationLower != nil && p.AoaElevationUpper != nil
		if hasAzimuth || hasElevation {
			b.PutBytes(tagRangeDataNtfAoaBound, aoaBound(
				boundOrDefault(p.AoaAzimuthLower, fira.AoaAzimuthLowerDefault),
				boundOrDefault(p.AoaAzimuthUpper, fira.AoaAzimuthUpperDefault),
				boundOrDefault(p.AoaElevationLower, fira.AoaElevationLowerDefault),
				boundOrDefault(p.AoaElevationUpper, fira.AoaElevationUpperDefault)))
		}
	}
	if p.SuspendRangingRounds != nil {
		b.PutUint8(tagSuspendRangingRounds, *p.SuspendRangingRounds)
	}
	return b.Build()
}

func boundOrDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// aoaBound packs four radian bounds as Q9.7 degrees, little-endian.
func aoaBound(azLower, azUpper, elLower, elUpper float64) []byte {
	out := make([]byte, 0, 8)
	for _, rad := range []float64{azLower, azUpper, elLower, elUpper} {
		q := tlv.EncodeQ97(tlv.RadiansToDegrees(rad))
		out = append(out, byte(q), byte(q>>8))
	}
	return out
}

func ulTdoaDeviceID(idType fira.UlTdoaDeviceIDType, id []byte) []byte {
	if idType == fira.UlTdoaDeviceIDNone {
		return []byte{0}
	}
	out := make([]byte, 0, len(id)+1)
	out = append(out, byte(idType))
	return append(out, id...)
}

// sessionTimeBase packs the reference time base record: feature byte,
// then the reference session handle and microsecond offset with their
// bytes reversed.
func sessionTimeBase(p *fira.OpenSessionParams) []byte {
	out := make([]byte, 0, 9)
	out = append(out, p.ReferenceTimeBase)
	out = append(out,
		byte(p.ReferenceSessionHandle), byte(p.ReferenceSessionHandle>>8),
		byte(p.ReferenceSessionHandle>>16), byte(p.ReferenceSessionHandle>>24))
	return append(out,
		byte(p.SessionOffsetTimeUs), byte(p.SessionOffsetTimeUs>>8),
		byte(p.SessionOffsetTimeUs>>16), byte(p.SessionOffsetTimeUs>>24))
}

func resultReportConfig(p *fira.OpenSessionParams) uint8 {
	var cfg uint8
	if p.HasTimeOfFlightReport {
		cfg |= 0x01
	}
	if p.HasAoaAzimuthReport {
		cfg |= 0x02
	}
	if p.HasAoaElevationReport {
		cfg |= 0x04
	}
	if p.HasAoaFomReport {
		cfg |= 0x08
	}
	return cfg
}

func rangingRoundControl(p *fira.OpenSessionParams) uint8 {
	var rrc uint8
	if p.HasRangingResultReportMessage {
		rrc |= 0x01
	}
	if p.HasControlMessage {
		rrc |= 0x02
	}
	if p.HasRangingControlPhase {
		rrc |= 0x04
	}
	if p.SchedulingMode == fira.SchedulingContention &&
		p.MeasurementReportPhase == fira.MeasurementReportPhaseSet {
		rrc |= 0x40
	}
	if p.MeasurementReportType == fira.MeasurementReportResponderToInitiator {
		rrc |= 0x80
	}
	return rrc
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
