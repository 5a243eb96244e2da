package session

// State is the UCI session state.
type State uint8

const (
	StateInit   State = 0x00
	StateDeinit State = 0x01
	StateActive State = 0x02
	StateIdle   State = 0x03
	StateError  State = 0xFF
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDeinit:
		return "deinit"
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsValid reports whether the state is defined.
func (s State) IsValid() bool {
	switch s {
	case StateInit, StateDeinit, StateActive, StateIdle, StateError:
		return true
	default:
		return false
	}
}

// Reason is the UCI reason code attached to a session state change.
type Reason uint8

const (
	ReasonStateChangeWithSessionManagementCommands Reason = 0x00
	ReasonMaxRangingRoundRetryCountReached         Reason = 0x01
	ReasonMaxNumberOfMeasurementsReached           Reason = 0x02
	ReasonSessionSuspended                         Reason = 0x03
	ReasonSessionResumed                           Reason = 0x04
	ReasonSessionStoppedDueToInbandSignal          Reason = 0x05
	ReasonErrorSlotLengthNotSupported              Reason = 0x20
	ReasonErrorInsufficientSlotsPerRangingRound    Reason = 0x21
	ReasonErrorMacAddressModeNotSupported          Reason = 0x22
	ReasonErrorInvalidRangingInterval              Reason = 0x23
	ReasonErrorInvalidStsConfig                    Reason = 0x24
	ReasonErrorInvalidRframeConfig                 Reason = 0x25
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonStateChangeWithSessionManagementCommands:
		return "session management command"
	case ReasonMaxRangingRoundRetryCountReached:
		return "max ranging round retries reached"
	case ReasonMaxNumberOfMeasurementsReached:
		return "max measurements reached"
	case ReasonSessionSuspended:
		return "session suspended"
	case ReasonSessionResumed:
		return "session resumed"
	case ReasonSessionStoppedDueToInbandSignal:
		return "stopped by in-band signal"
	case ReasonErrorSlotLengthNotSupported:
		return "slot length not supported"
	case ReasonErrorInsufficientSlotsPerRangingRound:
		return "insufficient slots per ranging round"
	case ReasonErrorMacAddressModeNotSupported:
		return "mac address mode not supported"
	case ReasonErrorInvalidRangingInterval:
		return "invalid ranging interval"
	case ReasonErrorInvalidStsConfig:
		return "invalid sts config"
	case ReasonErrorInvalidRframeConfig:
		return "invalid rframe config"
	default:
		return "unknown"
	}
}
