package iso7816

import "fmt"

// StatusWord is the SW1SW2 trailer of a response APDU.
type StatusWord uint16

const (
	SwNoError                StatusWord = 0x9000
	SwWrongLength            StatusWord = 0x6700
	SwConditionsNotSatisfied StatusWord = 0x6985
	SwWrongData              StatusWord = 0x6A80
	SwFunctionNotSupported   StatusWord = 0x6A81
	SwFileNotFound           StatusWord = 0x6A82
	SwNotEnoughMemory        StatusWord = 0x6A84
	SwIncorrectP1P2          StatusWord = 0x6A86
	SwAppletSelectFailed     StatusWord = 0x6999
	SwInsNotSupported        StatusWord = 0x6D00
	SwClaNotSupported        StatusWord = 0x6E00
)

// IsSuccess reports whether the status word signals success.
func (s StatusWord) IsSuccess() bool { return s == SwNoError }

// String returns the status word with its meaning when known.
func (s StatusWord) String() string {
	name := ""
	switch s {
	case SwNoError:
		name = "no error"
	case SwWrongLength:
		name = "wrong length"
	case SwConditionsNotSatisfied:
		name = "conditions not satisfied"
	case SwWrongData:
		name = "wrong data"
	case SwFunctionNotSupported:
		name = "function not supported"
	case SwFileNotFound:
		name = "file not found"
	case SwNotEnoughMemory:
		name = "not enough memory"
	case SwIncorrectP1P2:
		name = "incorrect P1/P2"
	case SwAppletSelectFailed:
		name = "applet select failed"
	case SwInsNotSupported:
		name = "INS not supported"
	case SwClaNotSupported:
		name = "CLA not supported"
	default:
		return fmt.Sprintf("SW %04X", uint16(s))
	}
	return fmt.Sprintf("SW %04X (%s)", uint16(s), name)
}
