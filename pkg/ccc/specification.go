package ccc

// SpecificationParams is the decoded CCC capability set of a device.
type SpecificationParams struct {
	ProtocolVersions        []ProtocolVersion
	UwbConfigs              []UwbConfig
	PulseShapeCombos        []PulseShapeCombo
	RanMultiplier           uint32
	ChapsPerSlot            []int
	SyncCodes               []int
	Channels                []int
	HoppingConfigModes      []HoppingConfigMode
	HoppingSequences        []HoppingSequence
	MaxRangingSessionNumber uint32
	MinUwbInitiationTimeMs  uint32

	// PrioritizedChannels orders Channels by controller preference.
	// Empty when the controller does not report a preference.
	PrioritizedChannels []int
}
