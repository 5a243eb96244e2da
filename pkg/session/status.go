package session

// Status is a UCI command status code.
type Status uint8

const (
	StatusOk                    Status = 0x00
	StatusRejected              Status = 0x01
	StatusFailed                Status = 0x02
	StatusSyntaxError           Status = 0x03
	StatusInvalidParam          Status = 0x04
	StatusInvalidRange          Status = 0x05
	StatusInvalidMessageSize    Status = 0x06
	StatusCommandRetry          Status = 0x0A
	StatusSessionNotExist       Status = 0x11
	StatusSessionDuplicate      Status = 0x12
	StatusSessionActive         Status = 0x13
	StatusMaxSessionsExceeded   Status = 0x14
	StatusSessionNotConfigured  Status = 0x15
	StatusActiveSessionsOngoing Status = 0x16
	StatusMulticastListFull     Status = 0x17
	StatusAddressNotFound       Status = 0x18
	StatusAddressAlreadyPresent Status = 0x19
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	case StatusSyntaxError:
		return "syntax error"
	case StatusInvalidParam:
		return "invalid param"
	case StatusInvalidRange:
		return "invalid range"
	case StatusInvalidMessageSize:
		return "invalid message size"
	case StatusCommandRetry:
		return "command retry"
	case StatusSessionNotExist:
		return "session not exist"
	case StatusSessionDuplicate:
		return "session duplicate"
	case StatusSessionActive:
		return "session active"
	case StatusMaxSessionsExceeded:
		return "max sessions exceeded"
	case StatusSessionNotConfigured:
		return "session not configured"
	case StatusActiveSessionsOngoing:
		return "active sessions ongoing"
	case StatusMulticastListFull:
		return "multicast list full"
	case StatusAddressNotFound:
		return "address not found"
	case StatusAddressAlreadyPresent:
		return "address already present"
	default:
		return "unknown"
	}
}
