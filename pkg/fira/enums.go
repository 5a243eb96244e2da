package fira

// DeviceType selects the session's control responsibility.
type DeviceType uint8

const (
	DeviceTypeControlee  DeviceType = 0
	DeviceTypeController DeviceType = 1
)

// String returns the device type name.
func (d DeviceType) String() string {
	switch d {
	case DeviceTypeControlee:
		return "Controlee"
	case DeviceTypeController:
		return "Controller"
	default:
		return "Unknown"
	}
}

// DeviceRole is the ranging role of the device within a session.
type DeviceRole uint8

const (
	RoleResponder     DeviceRole = 0
	RoleInitiator     DeviceRole = 1
	RoleUtSyncAnchor  DeviceRole = 2
	RoleUtAnchor      DeviceRole = 3
	RoleUtTag         DeviceRole = 4
	RoleAdvertiser    DeviceRole = 5
	RoleObserver      DeviceRole = 6
	RoleDtAnchor      DeviceRole = 7
	RoleDtTag         DeviceRole = 8
)

// String returns the role name.
func (r DeviceRole) String() string {
	switch r {
	case RoleResponder:
		return "Responder"
	case RoleInitiator:
		return "Initiator"
	case RoleUtSyncAnchor:
		return "UT-SyncAnchor"
	case RoleUtAnchor:
		return "UT-Anchor"
	case RoleUtTag:
		return "UT-Tag"
	case RoleAdvertiser:
		return "Advertiser"
	case RoleObserver:
		return "Observer"
	case RoleDtAnchor:
		return "DT-Anchor"
	case RoleDtTag:
		return "DT-Tag"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the role is defined.
func (r DeviceRole) IsValid() bool {
	return r <= RoleDtTag
}

// RangingRoundUsage selects the ranging method of a session.
type RangingRoundUsage uint8

const (
	UsageUlTdoa            RangingRoundUsage = 0
	UsageSsTwrDeferred     RangingRoundUsage = 1
	UsageDsTwrDeferred     RangingRoundUsage = 2
	UsageSsTwrNonDeferred  RangingRoundUsage = 3
	UsageDsTwrNonDeferred  RangingRoundUsage = 4
	UsageDlTdoa            RangingRoundUsage = 5
	UsageOwrAoa            RangingRoundUsage = 6
)

// IsTwr reports whether the usage is a two-way ranging mode.
func (u RangingRoundUsage) IsTwr() bool {
	switch u {
	case UsageSsTwrDeferred, UsageDsTwrDeferred, UsageSsTwrNonDeferred, UsageDsTwrNonDeferred:
		return true
	}
	return false
}

// StsConfig selects the scrambled timestamp sequence key scheme.
type StsConfig uint8

const (
	StsConfigStatic                    StsConfig = 0
	StsConfigDynamic                   StsConfig = 1
	StsConfigDynamicIndividualKey      StsConfig = 2
	StsConfigProvisioned               StsConfig = 3
	StsConfigProvisionedIndividualKey  StsConfig = 4
)

// MultiNodeMode describes the session topology.
type MultiNodeMode uint8

const (
	MultiNodeUnicast    MultiNodeMode = 0
	MultiNodeOneToMany  MultiNodeMode = 1
	MultiNodeManyToMany MultiNodeMode = 2
)

// RangeDataNtfConfig selects when range data notifications fire.
type RangeDataNtfConfig uint8

const (
	NtfConfigDisable              RangeDataNtfConfig = 0
	NtfConfigEnable               RangeDataNtfConfig = 1
	NtfConfigProximityLevelTrig   RangeDataNtfConfig = 2
	NtfConfigProximityEdgeTrig    RangeDataNtfConfig = 3
	NtfConfigAoaLevelTrig         RangeDataNtfConfig = 4
	NtfConfigAoaEdgeTrig          RangeDataNtfConfig = 5
	NtfConfigProximityAoaLevelTrig RangeDataNtfConfig = 6
	NtfConfigProximityAoaEdgeTrig  RangeDataNtfConfig = 7
)

// HasAoaBound reports whether the config carries AoA bounds on the wire.
func (c RangeDataNtfConfig) HasAoaBound() bool {
	switch c {
	case NtfConfigAoaLevelTrig, NtfConfigAoaEdgeTrig,
		NtfConfigProximityAoaLevelTrig, NtfConfigProximityAoaEdgeTrig:
		return true
	}
	return false
}

// SchedulingMode selects the ranging round scheduling discipline.
type SchedulingMode uint8

const (
	SchedulingContention SchedulingMode = 0
	SchedulingTime       SchedulingMode = 1
)

// AoaResultRequest selects angle-of-arrival result reporting.
type AoaResultRequest uint8

const (
	AoaResultNone          AoaResultRequest = 0
	AoaResultEnabled       AoaResultRequest = 1
	AoaResultAzimuthOnly   AoaResultRequest = 2
	AoaResultElevationOnly AoaResultRequest = 3
	AoaResultInterleaved   AoaResultRequest = 0xF0
)

// MeasurementReportType selects the direction of measurement reports.
type MeasurementReportType uint8

const (
	MeasurementReportInitiatorToResponder MeasurementReportType = 0
	MeasurementReportResponderToInitiator MeasurementReportType = 1
)

// MeasurementReportPhase enables the measurement report phase in
// contention-based rounds.
type MeasurementReportPhase uint8

const (
	MeasurementReportPhaseUnset MeasurementReportPhase = 0
	MeasurementReportPhaseSet   MeasurementReportPhase = 1
)

// RframeConfig selects the ranging frame STS packet structure.
type RframeConfig uint8

const (
	RframeSP0 RframeConfig = 0
	RframeSP1 RframeConfig = 1
	RframeSP3 RframeConfig = 3
)

// PrfMode selects the pulse repetition frequency mode.
type PrfMode uint8

const (
	PrfModeBprf PrfMode = 0
	PrfModeHprf PrfMode = 1
)

// PsduDataRate selects the payload data rate.
type PsduDataRate uint8

const (
	PsduDataRate6M81 PsduDataRate = 0
	PsduDataRate7M80 PsduDataRate = 1
	PsduDataRate27M2 PsduDataRate = 2
	PsduDataRate31M2 PsduDataRate = 3
)

// BprfPhrDataRate selects the BPRF PHR data rate.
type BprfPhrDataRate uint8

const (
	BprfPhrDataRate850K BprfPhrDataRate = 0
	BprfPhrDataRate6M81 BprfPhrDataRate = 1
)

// PreambleDuration selects the preamble symbol count.
type PreambleDuration uint8

const (
	PreambleDurationT32Symbols PreambleDuration = 0
	PreambleDurationT64Symbols PreambleDuration = 1
)

// StsLength selects the STS segment length in symbols.
type StsLength uint8

const (
	StsLength32  StsLength = 0
	StsLength64  StsLength = 1
	StsLength128 StsLength = 2
)

// MacFcsType selects the frame check sequence width.
type MacFcsType uint8

const (
	MacFcsCrc16 MacFcsType = 0
	MacFcsCrc32 MacFcsType = 1
)

// MacAddressMode selects short or extended MAC addressing.
type MacAddressMode uint8

const (
	MacAddressMode2Bytes MacAddressMode = 0
	MacAddressMode8Bytes MacAddressMode = 2
)

// RangingTimeStruct selects interval- or block-based timing.
type RangingTimeStruct uint8

const (
	TimeStructIntervalBased RangingTimeStruct = 0
	TimeStructBlockBased    RangingTimeStruct = 1
)

// LinkLayerMode selects the in-band data link layer mode.
type LinkLayerMode uint8

const (
	LinkLayerBypass         LinkLayerMode = 0
	LinkLayerConnectionless LinkLayerMode = 1
)

// HoppingMode enables channel hopping.
type HoppingMode uint8

const (
	HoppingDisable HoppingMode = 0
	HoppingEnable  HoppingMode = 1
)

// UlTdoaDeviceIDType selects the UL-TDoA device identifier width.
type UlTdoaDeviceIDType uint8

const (
	UlTdoaDeviceIDNone   UlTdoaDeviceIDType = 0
	UlTdoaDeviceID16Bit  UlTdoaDeviceIDType = 1
	UlTdoaDeviceID32Bit  UlTdoaDeviceIDType = 2
	UlTdoaDeviceID64Bit  UlTdoaDeviceIDType = 3
)

// UlTdoaTxTimestampType selects the UL-TDoA TX timestamp width.
type UlTdoaTxTimestampType uint8

const (
	UlTdoaTxTimestampNone  UlTdoaTxTimestampType = 0
	UlTdoaTxTimestamp40Bit UlTdoaTxTimestampType = 1
	UlTdoaTxTimestamp64Bit UlTdoaTxTimestampType = 2
)

// ApplicationDataEndpoint selects where in-band data terminates.
type ApplicationDataEndpoint uint8

const (
	DataEndpointHost          ApplicationDataEndpoint = 0
	DataEndpointSecureElement ApplicationDataEndpoint = 1
)

// SessionTimeBaseFeature is the bit in the reference time base field
// that enables time base referencing.
const SessionTimeBaseFeature = 0x01

// Address widths.
const (
	ShortAddressLen    = 2
	ExtendedAddressLen = 8

	VendorIDLen    = 2
	StaticStsIVLen = 6

	MaxControlees = 8
)
