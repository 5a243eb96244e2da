package fira

// Capability bitmasks as reported by the UWB subsystem. Flag values
// mirror the capability TLV bit layout.

// RoleFlags holds supported device roles. The second byte extends the
// FiRa 2.0 role set.
type RoleFlags uint16

const (
	RoleCapResponder    RoleFlags = 1 << 0
	RoleCapInitiator    RoleFlags = 1 << 1
	RoleCapUtSyncAnchor RoleFlags = 1 << 2
	RoleCapUtAnchor     RoleFlags = 1 << 3
	RoleCapUtTag        RoleFlags = 1 << 4
	RoleCapAdvertiser   RoleFlags = 1 << 5
	RoleCapObserver     RoleFlags = 1 << 6
	RoleCapDtAnchor     RoleFlags = 1 << 7
	RoleCapDtTag        RoleFlags = 1 << 8
)

// Has reports whether all flags in f are set.
func (r RoleFlags) Has(f RoleFlags) bool { return r&f == f }

// RangingMethodFlags holds supported ranging round usages.
type RangingMethodFlags uint16

const (
	MethodOwrUlTdoa       RangingMethodFlags = 1 << 0
	MethodSsTwrDeferred   RangingMethodFlags = 1 << 1
	MethodDsTwrDeferred   RangingMethodFlags = 1 << 2
	MethodSsTwrNonDeferred RangingMethodFlags = 1 << 3
	MethodDsTwrNonDeferred RangingMethodFlags = 1 << 4
	MethodOwrDlTdoa       RangingMethodFlags = 1 << 5
	MethodOwrAoa          RangingMethodFlags = 1 << 6
	MethodEssTwrNonDeferred RangingMethodFlags = 1 << 7
	MethodAdsTwr          RangingMethodFlags = 1 << 8
)

func (r RangingMethodFlags) Has(f RangingMethodFlags) bool { return r&f == f }

// HasNonDeferredMode reports support for any non-deferred TWR mode.
func (r RangingMethodFlags) HasNonDeferredMode() bool {
	return r&(MethodSsTwrNonDeferred|MethodDsTwrNonDeferred) != 0
}

// StsFlags holds supported STS configurations.
type StsFlags uint8

const (
	StsCapStatic                   StsFlags = 1 << 0
	StsCapDynamic                  StsFlags = 1 << 1
	StsCapDynamicIndividualKey     StsFlags = 1 << 2
	StsCapProvisioned              StsFlags = 1 << 3
	StsCapProvisionedIndividualKey StsFlags = 1 << 4
)

func (s StsFlags) Has(f StsFlags) bool { return s&f == f }

// MultiNodeFlags holds supported session topologies.
type MultiNodeFlags uint8

const (
	MultiNodeCapUnicast    MultiNodeFlags = 1 << 0
	MultiNodeCapOneToMany  MultiNodeFlags = 1 << 1
	MultiNodeCapManyToMany MultiNodeFlags = 1 << 2
)

func (m MultiNodeFlags) Has(f MultiNodeFlags) bool { return m&f == f }

// RframeFlags holds supported ranging frame configs.
type RframeFlags uint8

const (
	RframeCapSP0 RframeFlags = 1 << 0
	RframeCapSP1 RframeFlags = 1 << 1
	RframeCapSP2 RframeFlags = 1 << 2
	RframeCapSP3 RframeFlags = 1 << 3
)

func (r RframeFlags) Has(f RframeFlags) bool { return r&f == f }

// TimeStructFlags holds supported ranging time structures.
type TimeStructFlags uint8

const (
	TimeStructCapIntervalBased TimeStructFlags = 1 << 0
	TimeStructCapBlockBased    TimeStructFlags = 1 << 1
)

func (t TimeStructFlags) Has(f TimeStructFlags) bool { return t&f == f }

// SchedulingFlags holds supported scheduling modes.
type SchedulingFlags uint8

const (
	SchedulingCapContention    SchedulingFlags = 1 << 0
	SchedulingCapTimeScheduled SchedulingFlags = 1 << 1
)

func (s SchedulingFlags) Has(f SchedulingFlags) bool { return s&f == f }

// CcConstraintFlags holds supported convolutional code constraint lengths.
type CcConstraintFlags uint8

const (
	CcConstraintK3 CcConstraintFlags = 1 << 0
	CcConstraintK7 CcConstraintFlags = 1 << 1
)

func (c CcConstraintFlags) Has(f CcConstraintFlags) bool { return c&f == f }

// BprfFlags holds supported BPRF parameter sets.
type BprfFlags uint8

const (
	BprfSet1 BprfFlags = 1 << 0
	BprfSet2 BprfFlags = 1 << 1
	BprfSet3 BprfFlags = 1 << 2
	BprfSet4 BprfFlags = 1 << 3
	BprfSet5 BprfFlags = 1 << 4
	BprfSet6 BprfFlags = 1 << 5
)

func (b BprfFlags) Has(f BprfFlags) bool { return b&f == f }

// HprfFlags holds supported HPRF parameter sets (35 sets, 5 wire bytes).
type HprfFlags uint64

const (
	HprfSet1 HprfFlags = 1 << 0
	HprfSet2 HprfFlags = 1 << 1
	HprfSet3 HprfFlags = 1 << 2
	HprfSet4 HprfFlags = 1 << 3
)

func (h HprfFlags) Has(f HprfFlags) bool { return h&f == f }

// PrfFlags holds supported pulse repetition frequency modes.
type PrfFlags uint8

const (
	PrfCapBprf PrfFlags = 1 << 0
	PrfCapHprf PrfFlags = 1 << 1
)

func (p PrfFlags) Has(f PrfFlags) bool { return p&f == f }

// PsduFlags holds supported PSDU data rates.
type PsduFlags uint8

const (
	PsduCap6M81 PsduFlags = 1 << 0
	PsduCap7M80 PsduFlags = 1 << 1
	PsduCap27M2 PsduFlags = 1 << 2
	PsduCap31M2 PsduFlags = 1 << 3
)

func (p PsduFlags) Has(f PsduFlags) bool { return p&f == f }

// AoaFlags holds angle-of-arrival measurement capabilities.
type AoaFlags uint8

const (
	AoaCapAzimuth90  AoaFlags = 1 << 0
	AoaCapAzimuth180 AoaFlags = 1 << 1
	AoaCapElevation  AoaFlags = 1 << 2
	AoaCapFom        AoaFlags = 1 << 3
)

func (a AoaFlags) Has(f AoaFlags) bool { return a&f == f }

// NtfConfigFlags holds supported range data notification configs.
type NtfConfigFlags uint8

const (
	NtfCapEnable            NtfConfigFlags = 1 << 0
	NtfCapDisable           NtfConfigFlags = 1 << 1
	NtfCapProximityLevel    NtfConfigFlags = 1 << 2
	NtfCapAoaLevel          NtfConfigFlags = 1 << 3
	NtfCapProximityAoaLevel NtfConfigFlags = 1 << 4
	NtfCapProximityEdge     NtfConfigFlags = 1 << 5
	NtfCapAoaEdge           NtfConfigFlags = 1 << 6
	NtfCapProximityAoaEdge  NtfConfigFlags = 1 << 7
)

func (n NtfConfigFlags) Has(f NtfConfigFlags) bool { return n&f == f }

// Channel bitmask positions for the v1 capability record.
var channelBits = []struct {
	bit     uint8
	channel int
}{
	{1 << 0, 5},
	{1 << 1, 6},
	{1 << 2, 8},
	{1 << 3, 9},
	{1 << 4, 10},
	{1 << 5, 12},
	{1 << 6, 13},
	{1 << 7, 14},
}

// ChannelsFromMask expands the channel capability bitmask.
func ChannelsFromMask(mask uint8) []int {
	var channels []int
	for _, cb := range channelBits {
		if mask&cb.bit != 0 {
			channels = append(channels, cb.channel)
		}
	}
	return channels
}

// SessionKeyLength values reported in the FiRa 2.0 capability record.
type SessionKeyLength uint8

const (
	SessionKeyLength128 SessionKeyLength = 0
	SessionKeyLength256 SessionKeyLength = 1
)

// SpecificationParams is the decoded FiRa capability set of a device.
type SpecificationParams struct {
	MinPhyVersion ProtocolVersion
	MaxPhyVersion ProtocolVersion
	MinMacVersion ProtocolVersion
	MaxMacVersion ProtocolVersion

	DeviceType     DeviceType
	DeviceRoles    RoleFlags
	RangingMethods RangingMethodFlags
	StsCaps        StsFlags
	MultiNodeCaps  MultiNodeFlags
	TimeStructCaps TimeStructFlags
	SchedulingCaps SchedulingFlags

	HasBlockStridingSupport   bool
	HasHoppingSupport         bool
	HasNonDeferredModeSupport bool
	HasInitiationTimeSupport  bool
	HasExtendedMacSupport     bool
	HasInterleavingSupport    bool
	HasRssiReportingSupport   bool
	HasDiagnosticsSupport     bool
	HasSuspendRangingSupport  bool

	Channels       []int
	RframeCaps     RframeFlags
	CcConstraints  CcConstraintFlags
	BprfSets       BprfFlags
	HprfSets       HprfFlags
	PrfCaps        PrfFlags
	PsduRates      PsduFlags
	AoaCaps        AoaFlags
	NtfConfigCaps  NtfConfigFlags

	MinRangingIntervalMs    uint32
	MinSlotDurationRstu     uint32
	MaxRangingSessionNumber uint32
	MaxMessageSize          uint16
	MaxDataPacketPayloadSize uint16
	SessionKeyLength        SessionKeyLength

	// Derived controller/controlee role convenience flags.
	HasControleeInitiatorSupport  bool
	HasControllerInitiatorSupport bool
	HasControleeResponderSupport  bool
	HasControllerResponderSupport bool
}
