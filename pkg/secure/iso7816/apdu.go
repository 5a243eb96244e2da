// Package iso7816 implements the ISO 7816-4 APDU framing and the
// BER-TLV records used by the FiRa applet command set.
package iso7816

import (
	"errors"
	"fmt"
)

// Errors returned by the APDU codec.
var (
	ErrDataTooLong      = errors.New("iso7816: command data exceeds 255 bytes")
	ErrInvalidLe        = errors.New("iso7816: invalid expected response length")
	ErrResponseTooShort = errors.New("iso7816: response shorter than the status word")
)

// LeAbsent marks a command APDU without an expected response length.
const LeAbsent = -1

// CommandApdu is a short-form ISO 7816-4 command APDU.
type CommandApdu struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte

	// Le is the expected response length, 1..256, or LeAbsent.
	Le int
}

// NewCommandApdu builds a command APDU.
func NewCommandApdu(cla, ins, p1, p2 byte, data []byte, le int) CommandApdu {
	return CommandApdu{Cla: cla, Ins: ins, P1: p1, P2: p2, Data: data, Le: le}
}

// Encode serializes the command in short form. An Le of 256 encodes as
// 0x00.
func (a CommandApdu) Encode() ([]byte, error) {
	if len(a.Data) > 255 {
		return nil, ErrDataTooLong
	}
	if a.Le != LeAbsent && (a.Le < 1 || a.Le > 256) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLe, a.Le)
	}
	out := make([]byte, 0, 4+1+len(a.Data)+1)
	out = append(out, a.Cla, a.Ins, a.P1, a.P2)
	if len(a.Data) > 0 {
		out = append(out, byte(len(a.Data)))
		out = append(out, a.Data...)
	}
	if a.Le != LeAbsent {
		out = append(out, byte(a.Le)) // 256 wraps to 0x00
	}
	return out, nil
}

// String renders the header for logs, without the payload.
func (a CommandApdu) String() string {
	return fmt.Sprintf("APDU %02X %02X %02X %02X lc=%d", a.Cla, a.Ins, a.P1, a.P2, len(a.Data))
}

// ResponseApdu is an ISO 7816-4 response: payload plus status word.
type ResponseApdu struct {
	Data []byte
	SW   StatusWord
}

// ParseResponseApdu splits a raw response into payload and status word.
func ParseResponseApdu(raw []byte) (ResponseApdu, error) {
	if len(raw) < 2 {
		return ResponseApdu{}, ErrResponseTooShort
	}
	n := len(raw) - 2
	return ResponseApdu{
		Data: raw[:n],
		SW:   StatusWord(uint16(raw[n])<<8 | uint16(raw[n+1])),
	}, nil
}

// ResponseApduFromStatus builds a payload-free response.
func ResponseApduFromStatus(sw StatusWord) ResponseApdu {
	return ResponseApdu{SW: sw}
}

// Encode serializes the response.
func (r ResponseApdu) Encode() []byte {
	out := make([]byte, 0, len(r.Data)+2)
	out = append(out, r.Data...)
	return append(out, byte(r.SW>>8), byte(r.SW))
}

// IsSuccess reports whether the status word is SW_NO_ERROR.
func (r ResponseApdu) IsSuccess() bool {
	return r.SW == SwNoError
}
