package fira

// ReconfigureAction selects what a controlee reconfiguration does.
// The provisioned-STS add variants carry a sub-session key per controlee.
type ReconfigureAction uint8

const (
	ActionAddControlee           ReconfigureAction = 0
	ActionDeleteControlee        ReconfigureAction = 1
	ActionAddControleeKey16Bytes ReconfigureAction = 2
	ActionAddControleeKey32Bytes ReconfigureAction = 3
)

// IsAdd reports whether the action adds controlees.
func (a ReconfigureAction) IsAdd() bool {
	return a == ActionAddControlee ||
		a == ActionAddControleeKey16Bytes ||
		a == ActionAddControleeKey32Bytes
}

// RangingReconfigureParams updates a running session. Nil fields are
// left untouched; only non-nil fields reach the wire.
type RangingReconfigureParams struct {
	BlockStrideLength      *uint8
	RangeDataNtfConfig     *RangeDataNtfConfig
	RangeDataProximityNear *uint16
	RangeDataProximityFar  *uint16
	// AoA bounds, radians. Applied only when the ntf config has an AoA
	// trigger; missing bounds fall back to the defaults.
	AoaAzimuthLower     *float64
	AoaAzimuthUpper     *float64
	AoaElevationLower   *float64
	AoaElevationUpper   *float64
	SuspendRangingRounds *uint8

	// Controlee update. Address list is required when Action is set.
	Action            *ReconfigureAction
	AddressList       [][]byte
	SubSessionIDList  []uint32
	SubSessionKeyList [][]byte
}

// ControleeParams names the controlees of a multicast list update.
// Sub-session IDs and keys line up with the address list; both may be
// empty when the STS config does not use them.
type ControleeParams struct {
	AddressList       [][]byte
	SubSessionIDList  []uint32
	SubSessionKeyList [][]byte
}

// Reconfigure wraps the controlee update into reconfigure params with
// the given action.
func (p *ControleeParams) Reconfigure(action ReconfigureAction) *RangingReconfigureParams {
	return &RangingReconfigureParams{
		Action:            &action,
		AddressList:       p.AddressList,
		SubSessionIDList:  p.SubSessionIDList,
		SubSessionKeyList: p.SubSessionKeyList,
	}
}

// IsEmpty reports whether the reconfiguration changes nothing.
func (p *RangingReconfigureParams) IsEmpty() bool {
	return p.BlockStrideLength == nil &&
		p.RangeDataNtfConfig == nil &&
		p.RangeDataProximityNear == nil &&
		p.RangeDataProximityFar == nil &&
		p.SuspendRangingRounds == nil &&
		p.Action == nil
}
