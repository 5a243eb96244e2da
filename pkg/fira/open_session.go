package fira

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by parameter builders.
var (
	ErrMissingRequired = errors.New("fira: missing required parameter")
	ErrInvalidParam    = errors.New("fira: invalid parameter")
)

// Range data notification AoA bound defaults, in radians.
const (
	AoaAzimuthLowerDefault   = -math.Pi
	AoaAzimuthUpperDefault   = math.Pi
	AoaElevationLowerDefault = -math.Pi / 2
	AoaElevationUpperDefault = math.Pi / 2
)

// OpenSessionParams is the full configuration of a FiRa ranging session.
// Build one with OpenSessionBuilder; the zero value is not usable.
type OpenSessionParams struct {
	ProtocolVersion ProtocolVersion
	SessionID       uint32

	DeviceType        DeviceType
	DeviceRole        DeviceRole
	RangingRoundUsage RangingRoundUsage
	MultiNodeMode     MultiNodeMode
	DeviceAddress     []byte
	DestAddressList   [][]byte

	InitiationTimeMs         uint64
	AbsoluteInitiationTimeUs uint64
	RangingIntervalMs        uint32
	SlotDurationRstu         uint16
	SlotsPerRangingRound     uint8
	MaxRangingRoundRetries   uint16
	SessionPriority          uint8
	MacAddressMode           MacAddressMode

	HasRangingResultReportMessage bool
	HasControlMessage             bool
	HasRangingControlPhase        bool
	MeasurementReportType         MeasurementReportType
	MeasurementReportPhase        MeasurementReportPhase
	InBandTerminationAttemptCount uint8

	ChannelNumber     uint8
	PreambleCodeIndex uint8
	RframeConfig      RframeConfig
	PrfMode           PrfMode
	SchedulingMode    SchedulingMode
	PreambleDuration  PreambleDuration
	SfdID             uint8
	PsduDataRate      PsduDataRate
	BprfPhrDataRate   BprfPhrDataRate
	FcsType           MacFcsType

	StsConfig       StsConfig
	StsSegmentCount uint8
	StsLength       StsLength
	SubSessionID    uint32
	VendorID        []byte
	StaticStsIV     []byte
	SessionKey      []byte
	SubSessionKey   []byte
	KeyRotation     bool
	KeyRotationRate uint8

	AoaResultRequest          AoaResultRequest
	RangeDataNtfConfig        RangeDataNtfConfig
	RangeDataNtfProximityNear uint16
	RangeDataNtfProximityFar  uint16
	// AoA notification bounds, radians.
	RangeDataNtfAoaAzimuthLower   float64
	RangeDataNtfAoaAzimuthUpper   float64
	RangeDataNtfAoaElevationLower float64
	RangeDataNtfAoaElevationUpper float64

	HasTimeOfFlightReport  bool
	HasAoaAzimuthReport    bool
	HasAoaElevationReport  bool
	HasAoaFomReport        bool
	RssiReporting          bool
	DiagnosticsEnabled     bool
	DiagramsFrameReports   uint8
	TxAdaptivePayloadPower bool

	// Measurement focus counts for interleaved AoA.
	MeasurementFocusRange        uint8
	MeasurementFocusAoaAzimuth   uint8
	MeasurementFocusAoaElevation uint8

	RangingTimeStruct       RangingTimeStruct
	LinkLayerMode           LinkLayerMode
	DataRepetitionCount     uint8
	SessionDataTransferNtf  bool
	ApplicationDataEndpoint ApplicationDataEndpoint
	MaxNumberOfMeasurements uint16
	HoppingMode             HoppingMode
	BlockStrideLength       uint8
	CapSize                 [2]uint8

	// Time base referencing (controller, FiRa 2.0+).
	ReferenceTimeBase      uint8
	ReferenceSessionHandle uint32
	SessionOffsetTimeUs    uint32

	// DT-tag only.
	DlTdoaBlockStriding uint8

	// UT-tag only.
	UlTdoaTxIntervalMs    uint32
	UlTdoaRandomWindowMs  uint32
	UlTdoaDeviceIDType    UlTdoaDeviceIDType
	UlTdoaDeviceID        []byte
	UlTdoaTxTimestampType UlTdoaTxTimestampType

	// Advertiser/observer only.
	MinFramesPerRangingRound uint8
	MtuSize                  uint16
	InterFrameInterval       uint8
}

// OpenSessionBuilder assembles OpenSessionParams. Required parameters
// are the protocol version, session ID, device type, device role,
// ranging round usage, multi-node mode and device address; everything
// else carries controller-stack defaults.
type OpenSessionBuilder struct {
	p   OpenSessionParams
	set struct {
		sessionID bool
		devType   bool
		devRole   bool
		usage     bool
		multiNode bool
		address   bool
		version   bool
		capSize   bool
	}
}

// NewOpenSessionBuilder creates a builder with default optional values.
func NewOpenSessionBuilder() *OpenSessionBuilder {
	b := &OpenSessionBuilder{}
	b.p = OpenSessionParams{
		RangingIntervalMs:             200,
		SlotDurationRstu:              2400,
		SlotsPerRangingRound:          25,
		SessionPriority:               50,
		HasRangingResultReportMessage: true,
		HasControlMessage:             true,
		InBandTerminationAttemptCount: 1,
		ChannelNumber:                 9,
		PreambleCodeIndex:             10,
		RframeConfig:                  RframeSP3,
		SchedulingMode:                SchedulingTime,
		PreambleDuration:              PreambleDurationT64Symbols,
		SfdID:                         2,
		StsSegmentCount:               1,
		StsLength:                     StsLength64,
		AoaResultRequest:              AoaResultEnabled,
		RangeDataNtfConfig:            NtfConfigEnable,
		RangeDataNtfProximityFar:      20000,
		RangeDataNtfAoaAzimuthLower:   AoaAzimuthLowerDefault,
		RangeDataNtfAoaAzimuthUpper:   AoaAzimuthUpperDefault,
		RangeDataNtfAoaElevationLower: AoaElevationLowerDefault,
		RangeDataNtfAoaElevationUpper: AoaElevationUpperDefault,
		HasTimeOfFlightReport:         true,
		RangingTimeStruct:             TimeStructBlockBased,
		MinFramesPerRangingRound:      4,
		MtuSize:                       1048,
		InterFrameInterval:            1,
		UlTdoaTxIntervalMs:            2000,
	}
	return b
}

func (b *OpenSessionBuilder) ProtocolVersion(v ProtocolVersion) *OpenSessionBuilder {
	b.p.ProtocolVersion = v
	b.set.version = true
	return b
}

func (b *OpenSessionBuilder) SessionID(id uint32) *OpenSessionBuilder {
	b.p.SessionID = id
	b.set.sessionID = true
	return b
}

func (b *OpenSessionBuilder) DeviceType(t DeviceType) *OpenSessionBuilder {
	b.p.DeviceType = t
	b.set.devType = true
	return b
}

func (b *OpenSessionBuilder) DeviceRole(r DeviceRole) *OpenSessionBuilder {
	b.p.DeviceRole = r
	b.set.devRole = true
	return b
}

func (b *OpenSessionBuilder) RangingRoundUsage(u RangingRoundUsage) *OpenSessionBuilder {
	b.p.RangingRoundUsage = u
	b.set.usage = true
	return b
}

func (b *OpenSessionBuilder) MultiNodeMode(m MultiNodeMode) *OpenSessionBuilder {
	b.p.MultiNodeMode = m
	b.set.multiNode = true
	return b
}

func (b *OpenSessionBuilder) DeviceAddress(addr []byte) *OpenSessionBuilder {
	b.p.DeviceAddress = addr
	b.set.address = true
	return b
}

func (b *OpenSessionBuilder) DestAddressList(addrs ...[]byte) *OpenSessionBuilder {
	b.p.DestAddressList = addrs
	return b
}

func (b *OpenSessionBuilder) StsConfig(c StsConfig) *OpenSessionBuilder {
	b.p.StsConfig = c
	return b
}

func (b *OpenSessionBuilder) VendorID(id []byte) *OpenSessionBuilder {
	b.p.VendorID = id
	return b
}

func (b *OpenSessionBuilder) StaticStsIV(iv []byte) *OpenSessionBuilder {
	b.p.StaticStsIV = iv
	return b
}

func (b *OpenSessionBuilder) SessionKey(key []byte) *OpenSessionBuilder {
	b.p.SessionKey = key
	return b
}

func (b *OpenSessionBuilder) SubSessionKey(key []byte) *OpenSessionBuilder {
	b.p.SubSessionKey = key
	return b
}

func (b *OpenSessionBuilder) SubSessionID(id uint32) *OpenSessionBuilder {
	b.p.SubSessionID = id
	return b
}

func (b *OpenSessionBuilder) CapSize(size [2]uint8) *OpenSessionBuilder {
	b.p.CapSize = size
	b.set.capSize = true
	return b
}

// Set applies fn to the parameters under construction. It covers the
// long tail of optional fields without a setter per field.
func (b *OpenSessionBuilder) Set(fn func(*OpenSessionParams)) *OpenSessionBuilder {
	fn(&b.p)
	return b
}

// Build validates and returns the parameters.
func (b *OpenSessionBuilder) Build() (*OpenSessionParams, error) {
	switch {
	case !b.set.version:
		return nil, fmt.Errorf("%w: protocol version", ErrMissingRequired)
	case !b.set.sessionID:
		return nil, fmt.Errorf("%w: session ID", ErrMissingRequired)
	case !b.set.devType:
		return nil, fmt.Errorf("%w: device type", ErrMissingRequired)
	case !b.set.devRole:
		return nil, fmt.Errorf("%w: device role", ErrMissingRequired)
	case !b.set.usage:
		return nil, fmt.Errorf("%w: ranging round usage", ErrMissingRequired)
	case !b.set.multiNode:
		return nil, fmt.Errorf("%w: multi-node mode", ErrMissingRequired)
	case !b.set.address:
		return nil, fmt.Errorf("%w: device address", ErrMissingRequired)
	}

	p := b.p
	if !p.DeviceRole.IsValid() {
		return nil, fmt.Errorf("%w: device role %d", ErrInvalidParam, p.DeviceRole)
	}
	wantAddrLen := ShortAddressLen
	if p.MacAddressMode == MacAddressMode8Bytes {
		wantAddrLen = ExtendedAddressLen
	}
	if len(p.DeviceAddress) != wantAddrLen {
		return nil, fmt.Errorf("%w: device address must be %d bytes", ErrInvalidParam, wantAddrLen)
	}
	for _, dst := range p.DestAddressList {
		if len(dst) != wantAddrLen {
			return nil, fmt.Errorf("%w: dest address must be %d bytes", ErrInvalidParam, wantAddrLen)
		}
	}
	if len(p.DestAddressList) > MaxControlees {
		return nil, fmt.Errorf("%w: more than %d controlees", ErrInvalidParam, MaxControlees)
	}

	switch p.StsConfig {
	case StsConfigStatic:
		if len(p.VendorID) != VendorIDLen {
			return nil, fmt.Errorf("%w: static STS needs a %d-byte vendor ID", ErrInvalidParam, VendorIDLen)
		}
		if len(p.StaticStsIV) != StaticStsIVLen {
			return nil, fmt.Errorf("%w: static STS needs a %d-byte IV", ErrInvalidParam, StaticStsIVLen)
		}
	case StsConfigProvisioned, StsConfigProvisionedIndividualKey:
		if p.SessionKey != nil && len(p.SessionKey) != 16 && len(p.SessionKey) != 32 {
			return nil, fmt.Errorf("%w: session key must be 16 or 32 bytes", ErrInvalidParam)
		}
		if p.SubSessionKey != nil && len(p.SubSessionKey) != 16 && len(p.SubSessionKey) != 32 {
			return nil, fmt.Errorf("%w: sub-session key must be 16 or 32 bytes", ErrInvalidParam)
		}
	}

	if !b.set.capSize {
		p.CapSize = [2]uint8{p.SlotsPerRangingRound - 1, 5}
	}
	return &p, nil
}
