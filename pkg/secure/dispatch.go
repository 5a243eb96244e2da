package secure

import (
	"errors"
	"fmt"

	"github.com/openuwb/uwb/pkg/secure/iso7816"
)

// Tags inside the dispatch response template, CSML 8.2.2.14.2.9.
const (
	tagDispatchStatus      iso7816.Tag = 0x80
	tagDispatchData        iso7816.Tag = 0x81
	tagNotification        iso7816.Tag = 0xE1
	tagNotificationEventID iso7816.Tag = 0x81
	tagNotificationData    iso7816.Tag = 0x82
)

// Transaction status values in the dispatch response.
const (
	transactionComplete      = 0x00
	transactionForwardRemote = 0x80
	transactionForwardHost   = 0x81
	transactionWithError     = 0xFF
)

// ErrMalformedNotification reports a dispatch notification missing its
// required fields.
var ErrMalformedNotification = errors.New("secure: malformed dispatch notification")

// OutboundTarget says where dispatch outbound data must go.
type OutboundTarget uint8

const (
	OutboundTargetHost OutboundTarget = iota
	OutboundTargetRemote
)

// OutboundData is data produced by the applet during a dispatch, bound
// for either the local host or the remote device.
type OutboundData struct {
	Target OutboundTarget
	Data   []byte
}

// NotificationID identifies an event reported by the FiRa applet.
type NotificationID uint8

const (
	NotificationAdfSelected NotificationID = iota
	NotificationSecureChannelEstablished
	NotificationRdsAvailable
	NotificationSecureSessionAborted
	NotificationControleeInfoAvailable
)

// Notification is one applet event from a dispatch response. The
// populated fields depend on the ID: AdfOid for ADF selected, SessionID
// for established (when present) and RDS available, Data for the RDS
// arbitrary data or the controlee info.
type Notification struct {
	ID           NotificationID
	AdfOid       []byte
	SessionID    uint32
	HasSessionID bool
	Data         []byte
}

// DispatchResponse is the parsed answer to a dispatch command.
type DispatchResponse struct {
	SW            iso7816.StatusWord
	Outbound      *OutboundData
	Notifications []Notification
}

// IsSuccess reports whether the applet accepted the dispatch.
func (r *DispatchResponse) IsSuccess() bool { return r.SW.IsSuccess() }

// ParseDispatchResponse decodes a dispatch response APDU. Responses
// with an error status word parse to an empty response carrying the SW.
func ParseDispatchResponse(resp iso7816.ResponseApdu) (*DispatchResponse, error) {
	out := &DispatchResponse{SW: resp.SW}
	if !resp.IsSuccess() {
		return out, nil
	}
	tlvs, err := templateTlvs(resp)
	if err != nil {
		return nil, err
	}

	for _, tlv := range tlvs[tagNotification] {
		n, err := parseNotification(tlv.Value)
		if err != nil {
			return nil, err
		}
		out.Notifications = append(out.Notifications, n)
	}

	status, ok := tlvs.Get(tagDispatchStatus)
	if !ok || len(status.Value) == 0 {
		return out, nil
	}
	switch status.Value[0] {
	case transactionWithError:
		out.Notifications = append(out.Notifications,
			Notification{ID: NotificationSecureSessionAborted})
	case transactionForwardRemote, transactionForwardHost:
		data, ok := tlvs.Get(tagDispatchData)
		if !ok {
			break
		}
		target := OutboundTargetRemote
		if status.Value[0] == transactionForwardHost {
			target = OutboundTargetHost
		}
		out.Outbound = &OutboundData{Target: target, Data: data.Value}
	case transactionComplete:
	}
	return out, nil
}

func parseNotification(value []byte) (Notification, error) {
	tlvs, err := iso7816.ParseTlvs(value)
	if err != nil {
		return Notification{}, err
	}
	eventID, ok := tlvs.Get(tagNotificationEventID)
	if !ok || len(eventID.Value) == 0 {
		return Notification{}, fmt.Errorf("%w: no event ID", ErrMalformedNotification)
	}
	data, hasData := tlvs.Get(tagNotificationData)

	switch eventID.Value[0] {
	case 0x00:
		if !hasData || len(data.Value) == 0 {
			return Notification{}, fmt.Errorf("%w: ADF selected without OID", ErrMalformedNotification)
		}
		return Notification{ID: NotificationAdfSelected, AdfOid: data.Value}, nil
	case 0x01:
		n := Notification{ID: NotificationSecureChannelEstablished}
		// Optionally carries a length-prefixed default session ID.
		if hasData {
			if id, idData, err := parseSessionIDPayload(data.Value); err == nil {
				n.SessionID = id
				n.HasSessionID = true
				n.Data = idData
			}
		}
		return n, nil
	case 0x02:
		if !hasData {
			return Notification{}, fmt.Errorf("%w: RDS without session ID", ErrMalformedNotification)
		}
		id, arbitrary, err := parseSessionIDPayload(data.Value)
		if err != nil {
			return Notification{}, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
		}
		return Notification{
			ID:           NotificationRdsAvailable,
			SessionID:    id,
			HasSessionID: true,
			Data:         arbitrary,
		}, nil
	case 0x03:
		if !hasData || len(data.Value) == 0 {
			return Notification{}, fmt.Errorf("%w: empty controlee info", ErrMalformedNotification)
		}
		return Notification{ID: NotificationControleeInfoAvailable, Data: data.Value}, nil
	default:
		return Notification{}, fmt.Errorf("%w: unknown event %#x", ErrMalformedNotification, eventID.Value[0])
	}
}

// parseSessionIDPayload reads a length-prefixed session ID, returning
// the ID and any length-prefixed arbitrary data behind it.
func parseSessionIDPayload(payload []byte) (uint32, []byte, error) {
	if len(payload) < 2 || len(payload) < 1+int(payload[0]) {
		return 0, nil, errors.New("short session ID payload")
	}
	idLen := int(payload[0])
	if idLen > 4 {
		return 0, nil, errors.New("session ID wider than 32 bits")
	}
	var id uint32
	for _, b := range payload[1 : 1+idLen] {
		id = id<<8 | uint32(b)
	}

	rest := payload[1+idLen:]
	if len(rest) == 0 {
		return id, nil, nil
	}
	if len(rest) != 1+int(rest[0]) {
		// Malformed trailer, keep the session ID and drop the data.
		return id, nil, nil
	}
	return id, rest[1:], nil
}
