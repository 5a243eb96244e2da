// Package secure sets up the CSML secure channel between two devices
// over an out-of-band transport, driving the local FiRa applet on the
// secure element with ISO 7816 APDUs.
package secure

import (
	"encoding/binary"

	"github.com/openuwb/uwb/pkg/secure/iso7816"
)

// Proprietary class byte of the FiRa applet command set.
const claProprietary = 0x80

// Instruction bytes, CSML 8.2.2.14.
const (
	insSelectAdf           = 0xA5
	insInitiateTransaction = 0x12
	insTunnel              = 0x14
	insSwapAdf             = 0x40
	insDispatch            = 0xC2
	insGetDo               = 0xCB
)

// Template and data object tags used by the command set.
const (
	tagProprietaryCommand  iso7816.Tag = 0x70
	tagProprietaryResponse iso7816.Tag = 0x71
	tagOid                 iso7816.Tag = 0x06
	tagData                iso7816.Tag = 0x81
	tagSessionID           iso7816.Tag = 0x80
	tagSlotIdentifier      iso7816.Tag = 0x80
	tagSecureBlob          iso7816.Tag = 0xDF51
	tagControleeInfo       iso7816.Tag = 0xBF70
	tagExtendedHeadList    iso7816.Tag = 0x4D
	tagTerminateSessionDo  iso7816.Tag = 0x80
	tagTerminateSessionTop iso7816.Tag = 0xBF79
	tagSessionDataDo       iso7816.Tag = 0xBF78
)

func proprietaryCommand(ins byte, p1, p2 byte, payload ...iso7816.Tlv) iso7816.CommandApdu {
	return iso7816.NewCommandApdu(claProprietary, ins, p1, p2,
		iso7816.EncodeTlvs(payload...), iso7816.LeAbsent)
}

// SelectAdfCommand selects an application dedicated file by OID.
func SelectAdfCommand(adfOid []byte) iso7816.CommandApdu {
	return proprietaryCommand(insSelectAdf, 0x00, 0x00, iso7816.NewTlv(tagOid, adfOid))
}

// InitiateTransactionUnicastCommand starts a unicast transaction with
// the peer's selectable ADF OIDs.
func InitiateTransactionUnicastCommand(adfOids [][]byte) iso7816.CommandApdu {
	return proprietaryCommand(insInitiateTransaction, 0x00, 0x00, oidTlvs(adfOids)...)
}

// InitiateTransactionMulticastCommand starts a multicast transaction
// carrying the shared UWB session ID.
func InitiateTransactionMulticastCommand(adfOids [][]byte, sessionID uint32) iso7816.CommandApdu {
	id := make([]byte, 4)
	binary.BigEndian.PutUint32(id, sessionID)
	payload := append(oidTlvs(adfOids), iso7816.NewTlv(tagSessionID, id))
	return proprietaryCommand(insInitiateTransaction, 0x01, 0x00, payload...)
}

func oidTlvs(adfOids [][]byte) []iso7816.Tlv {
	tlvs := make([]iso7816.Tlv, 0, len(adfOids))
	for _, oid := range adfOids {
		tlvs = append(tlvs, iso7816.NewTlv(tagOid, oid))
	}
	return tlvs
}

// DispatchCommand hands data received from the remote device to the
// FiRa applet.
func DispatchCommand(data []byte) iso7816.CommandApdu {
	return proprietaryCommand(insDispatch, 0x00, 0x00,
		iso7816.NestedTlv(tagProprietaryCommand, iso7816.NewTlv(tagData, data)))
}

// TunnelCommand wraps initiator data for the secure tunnel to the
// remote applet.
func TunnelCommand(data []byte) iso7816.CommandApdu {
	return proprietaryCommand(insTunnel, 0x00, 0x00,
		iso7816.NestedTlv(tagProprietaryCommand, iso7816.NewTlv(tagData, data)))
}

// GetDoCommand reads a data object selected by an extended header list.
func GetDoCommand(headList iso7816.Tlv) iso7816.CommandApdu {
	return proprietaryCommand(insGetDo, 0x3F, 0xFF, headList)
}

// TerminateSessionGetDoTlv is the extended header list selecting the
// terminate-session DO, CSML 8.2.2.7.1.4.
func TerminateSessionGetDoTlv() iso7816.Tlv {
	inner := iso7816.NewTlv(tagTerminateSessionTop,
		append(tagTerminateSessionDo.Encode(), 0x00))
	return iso7816.NewTlv(tagExtendedHeadList, inner.Encode())
}

// SessionDataGetDoTlv is the extended header list selecting the full
// session data DO.
func SessionDataGetDoTlv() iso7816.Tlv {
	return iso7816.NewTlv(tagExtendedHeadList,
		append(tagSessionDataDo.Encode(), 0x00))
}

// SwapInAdfCommand imports a provisioned ADF secure blob into a dynamic
// slot.
func SwapInAdfCommand(secureBlob, adfOid, controleeInfo []byte) iso7816.CommandApdu {
	return proprietaryCommand(insSwapAdf, 0x00, 0x00,
		iso7816.NewTlv(tagSecureBlob, secureBlob),
		iso7816.NewTlv(tagOid, adfOid),
		iso7816.NewTlv(tagControleeInfo, controleeInfo))
}

// SwapOutAdfCommand releases a dynamic ADF slot.
func SwapOutAdfCommand(slotIdentifier []byte) iso7816.CommandApdu {
	return proprietaryCommand(insSwapAdf, 0x01, 0x00,
		iso7816.NewTlv(tagSlotIdentifier, slotIdentifier))
}
