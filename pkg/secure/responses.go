package secure

import (
	"errors"

	"github.com/openuwb/uwb/pkg/secure/iso7816"
)

// ErrMalformedResponse reports an applet response whose payload does
// not carry the expected proprietary template.
var ErrMalformedResponse = errors.New("secure: malformed applet response")

// templateTlvs unwraps the proprietary response template and parses its
// contents.
func templateTlvs(resp iso7816.ResponseApdu) (iso7816.TlvMap, error) {
	outer, err := iso7816.ParseTlvs(resp.Data)
	if err != nil {
		return nil, err
	}
	tmpl, ok := outer.Get(tagProprietaryResponse)
	if !ok {
		return nil, ErrMalformedResponse
	}
	return iso7816.ParseTlvs(tmpl.Value)
}

// InitiateTransactionResponse is the applet's answer to an initiate
// transaction command. OutboundData must be relayed to the remote
// device to continue the transaction.
type InitiateTransactionResponse struct {
	SW           iso7816.StatusWord
	OutboundData []byte
}

// ParseInitiateTransactionResponse decodes the response template.
func ParseInitiateTransactionResponse(resp iso7816.ResponseApdu) (*InitiateTransactionResponse, error) {
	out := &InitiateTransactionResponse{SW: resp.SW}
	if !resp.IsSuccess() {
		return out, nil
	}
	tlvs, err := templateTlvs(resp)
	if err != nil {
		return nil, err
	}
	if data, ok := tlvs.Get(tagData); ok {
		out.OutboundData = data.Value
	}
	return out, nil
}

// TunnelResponse is the applet's answer to a tunnel command. The
// outbound data carries the wrapped payload for the remote device.
type TunnelResponse struct {
	SW           iso7816.StatusWord
	OutboundData []byte
}

// ParseTunnelResponse decodes the response template.
func ParseTunnelResponse(resp iso7816.ResponseApdu) (*TunnelResponse, error) {
	out := &TunnelResponse{SW: resp.SW}
	if !resp.IsSuccess() {
		return out, nil
	}
	tlvs, err := templateTlvs(resp)
	if err != nil {
		return nil, err
	}
	if data, ok := tlvs.Get(tagData); ok {
		out.OutboundData = data.Value
	}
	return out, nil
}

// SwapInAdfResponse carries the dynamic slot identifier assigned to the
// swapped-in ADF.
type SwapInAdfResponse struct {
	SW             iso7816.StatusWord
	SlotIdentifier []byte
}

// ParseSwapInAdfResponse decodes the response template.
func ParseSwapInAdfResponse(resp iso7816.ResponseApdu) (*SwapInAdfResponse, error) {
	out := &SwapInAdfResponse{SW: resp.SW}
	if !resp.IsSuccess() {
		return out, nil
	}
	tlvs, err := iso7816.ParseTlvs(resp.Data)
	if err != nil {
		return nil, err
	}
	if slot, ok := tlvs.Get(tagSlotIdentifier); ok {
		out.SlotIdentifier = slot.Value
	}
	return out, nil
}

// GetDoResponse is the applet's answer to a get-DO command; Data is the
// selected data object content.
type GetDoResponse struct {
	SW   iso7816.StatusWord
	Data []byte
}

// ParseGetDoResponse wraps the raw response.
func ParseGetDoResponse(resp iso7816.ResponseApdu) *GetDoResponse {
	return &GetDoResponse{SW: resp.SW, Data: resp.Data}
}
