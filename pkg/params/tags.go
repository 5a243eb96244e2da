package params

// Application configuration TLV tags (UCI SESSION_SET_APP_CONFIG).
const (
	tagDeviceType                  uint8 = 0x00
	tagRangingRoundUsage           uint8 = 0x01
	tagStsConfig                   uint8 = 0x02
	tagMultiNodeMode               uint8 = 0x03
	tagChannelNumber               uint8 = 0x04
	tagNumberOfControlees          uint8 = 0x05
	tagDeviceMacAddress            uint8 = 0x06
	tagDstMacAddress               uint8 = 0x07
	tagSlotDuration                uint8 = 0x08
	tagRangingInterval             uint8 = 0x09
	tagStsIndex                    uint8 = 0x0A
	tagMacFcsType                  uint8 = 0x0B
	tagRangingRoundControl         uint8 = 0x0C
	tagAoaResultReq                uint8 = 0x0D
	tagRangeDataNtfConfig          uint8 = 0x0E
	tagNtfProximityNear            uint8 = 0x0F
	tagNtfProximityFar             uint8 = 0x10
	tagDeviceRole                  uint8 = 0x11
	tagRframeConfig                uint8 = 0x12
	tagRssiReporting               uint8 = 0x13
	tagPreambleCodeIndex           uint8 = 0x14
	tagSfdID                       uint8 = 0x15
	tagPsduDataRate                uint8 = 0x16
	tagPreambleDuration            uint8 = 0x17
	tagLinkLayerMode               uint8 = 0x18
	tagDataRepetitionCount         uint8 = 0x19
	tagRangingTimeStruct           uint8 = 0x1A
	tagSlotsPerRangingRound        uint8 = 0x1B
	tagTxAdaptivePayloadPower      uint8 = 0x1C
	tagRangeDataNtfAoaBound        uint8 = 0x1D
	tagPrfMode                     uint8 = 0x1F
	tagCapSizeRange                uint8 = 0x20
	tagScheduledMode               uint8 = 0x22
	tagKeyRotation                 uint8 = 0x23
	tagKeyRotationRate             uint8 = 0x24
	tagSessionPriority             uint8 = 0x25
	tagMacAddressMode              uint8 = 0x26
	tagVendorID                    uint8 = 0x27
	tagStaticStsIV                 uint8 = 0x28
	tagNumberOfStsSegments         uint8 = 0x29
	tagMaxRangingRoundRetry        uint8 = 0x2A
	tagUwbInitiationTime           uint8 = 0x2B
	tagHoppingMode                 uint8 = 0x2C
	tagBlockStrideLength           uint8 = 0x2D
	tagResultReportConfig          uint8 = 0x2E
	tagInBandTerminationAttempts   uint8 = 0x2F
	tagSubSessionID                uint8 = 0x30
	tagBprfPhrDataRate             uint8 = 0x31
	tagMaxNumberOfMeasurements     uint8 = 0x32
	tagUlTdoaTxInterval            uint8 = 0x33
	tagUlTdoaRandomWindow          uint8 = 0x34
	tagStsLength                   uint8 = 0x35
	tagSuspendRangingRounds        uint8 = 0x36
	tagUlTdoaDeviceID              uint8 = 0x38
	tagUlTdoaTxTimestamp           uint8 = 0x39
	tagMinFramesPerRangingRound    uint8 = 0x3A
	tagMtuSize                     uint8 = 0x3B
	tagInterFrameInterval          uint8 = 0x3C
	tagDlTdoaBlockStriding         uint8 = 0x43
	tagSessionKey                  uint8 = 0x45
	tagSubSessionKey               uint8 = 0x46
	tagSessionDataTransferNtf      uint8 = 0x47
	tagSessionTimeBase             uint8 = 0x48
	tagApplicationDataEndpoint     uint8 = 0x4C
)

// CCC session configuration tags.
const (
	tagCccHopModeKey         uint8 = 0xA0
	tagCccUwbTime0           uint8 = 0xA1
	tagCccRangingProtocolVer uint8 = 0xA3
	tagCccUwbConfigID        uint8 = 0xA4
	tagCccPulseShapeCombo    uint8 = 0xA5
	tagCccUrskTTL            uint8 = 0xA6
	tagCccLastStsIndexUsed   uint8 = 0xA8
)

// Vendor session configuration tags.
const (
	tagNumRangeMeasurements   uint8 = 0xE3
	tagNumAoaAzimuth          uint8 = 0xE4
	tagNumAoaElevation        uint8 = 0xE5
	tagEnableDiagnostics      uint8 = 0xE8
	tagDiagramsFrameReports   uint8 = 0xE9
)

// Radar session configuration tags.
const (
	tagRadarTimingParams   uint8 = 0x00
	tagRadarSamplesPerSweep uint8 = 0x01
	tagRadarChannelNumber  uint8 = 0x02
	tagRadarSweepOffset    uint8 = 0x03
	tagRadarRframeConfig   uint8 = 0x04
	tagRadarPreambleDuration uint8 = 0x05
	tagRadarPreambleCodeIndex uint8 = 0x06
	tagRadarSessionPriority uint8 = 0x07
	tagRadarBitsPerSample  uint8 = 0x08
	tagRadarPrfMode        uint8 = 0x09
	tagRadarNumberOfBursts uint8 = 0x0A
	tagRadarDataType       uint8 = 0x0B
)

// FiRa 1.x capability tags (CORE_GET_CAPS_INFO).
const (
	capV1PhyVersionRange     uint8 = 0x00
	capV1MacVersionRange     uint8 = 0x01
	capV1DeviceRoles         uint8 = 0x02
	capV1RangingMethod       uint8 = 0x03
	capV1StsConfig           uint8 = 0x04
	capV1MultiNode           uint8 = 0x05
	capV1RangingTimeStruct   uint8 = 0x06
	capV1ScheduledMode       uint8 = 0x07
	capV1HoppingMode         uint8 = 0x08
	capV1BlockStriding       uint8 = 0x09
	capV1UwbInitiationTime   uint8 = 0x0A
	capV1Channels            uint8 = 0x0B
	capV1RframeConfig        uint8 = 0x0C
	capV1CcConstraintLength  uint8 = 0x0D
	capV1BprfParameterSets   uint8 = 0x0E
	capV1HprfParameterSets   uint8 = 0x0F
	capV1AoaSupport          uint8 = 0x10
	capV1ExtendedMacAddress  uint8 = 0x11
	capV1MaxMessageSize      uint8 = 0x12
	capV1MaxDataPayloadSize  uint8 = 0x13
)

// FiRa 2.0 capability tags.
const (
	capV2MaxMessageSize     uint8 = 0x00
	capV2MaxDataPayloadSize uint8 = 0x01
	capV2PhyVersionRange    uint8 = 0x02
	capV2MacVersionRange    uint8 = 0x03
	capV2DeviceType         uint8 = 0x04
	capV2DeviceRoles        uint8 = 0x05
	capV2RangingMethod      uint8 = 0x06
	capV2StsConfig          uint8 = 0x07
	capV2MultiNode          uint8 = 0x08
	capV2RangingTimeStruct  uint8 = 0x09
	capV2ScheduledMode      uint8 = 0x0A
	capV2HoppingMode        uint8 = 0x0B
	capV2BlockStriding      uint8 = 0x0C
	capV2UwbInitiationTime  uint8 = 0x0D
	capV2Channels           uint8 = 0x0E
	capV2RframeConfig       uint8 = 0x0F
	capV2CcConstraintLength uint8 = 0x10
	capV2BprfParameterSets  uint8 = 0x11
	capV2HprfParameterSets  uint8 = 0x12
	capV2AoaSupport         uint8 = 0x13
	capV2ExtendedMacAddress uint8 = 0x14
	capV2SuspendRanging     uint8 = 0x15
	capV2SessionKeyLength   uint8 = 0x16
)

// Vendor capability tags (shared by both capability versions).
const (
	capPowerStatsQuery        uint8 = 0xC0
	capAoaResultInterleaving  uint8 = 0xE3
	capMinRangingIntervalMs   uint8 = 0xE4
	capRangeDataNtfConfig     uint8 = 0xE5
	capRssiReporting          uint8 = 0xE6
	capDiagnostics            uint8 = 0xE7
	capMinSlotDurationRstu    uint8 = 0xE8
	capMaxRangingSessionNum   uint8 = 0xE9
)

// CCC capability tags.
const (
	capCccChapsPerSlot        uint8 = 0xA0
	capCccSyncCodes           uint8 = 0xA1
	capCccHoppingConfigModes  uint8 = 0xA2
	capCccChannels            uint8 = 0xA3
	capCccVersions            uint8 = 0xA4
	capCccUwbConfigs          uint8 = 0xA5
	capCccPulseShapeCombos    uint8 = 0xA6
	capCccRanMultiplier       uint8 = 0xA7
	capCccMaxRangingSessions  uint8 = 0xA8
	capCccMinUwbInitiationTime uint8 = 0xA9
	capCccPrioritizedChannels uint8 = 0xAA
)

// Radar capability tags.
const (
	capRadarSupport uint8 = 0xB0
)
