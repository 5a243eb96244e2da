package session

import (
	"context"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

// Type is the UCI session type byte sent on session init.
type Type uint8

const (
	TypeFiraRanging      Type = 0x00
	TypeFiraDataTransfer Type = 0x01
	TypeCcc              Type = 0xA0
	TypeRadar            Type = 0xA1
)

// NativeInterface is the UCI command surface of the UWB subsystem.
// Calls block until the subsystem has reached the resulting session
// state; a non-nil error means the command never reached the subsystem
// and is reported as StatusFailed.
type NativeInterface interface {
	// InitSession creates a session on the subsystem.
	InitSession(ctx context.Context, sessionID uint32, sessionType Type) (Status, error)

	// SetAppConfig applies session configuration TLVs.
	SetAppConfig(ctx context.Context, sessionID uint32, config *tlv.Buffer) (Status, error)

	// AppConfig reads back the session configuration as raw TLVs plus
	// the record count.
	AppConfig(ctx context.Context, sessionID uint32) ([]byte, int, error)

	// StartRanging starts the ranging rounds.
	StartRanging(ctx context.Context, sessionID uint32) (Status, error)

	// StopRanging halts the ranging rounds, keeping the session.
	StopRanging(ctx context.Context, sessionID uint32) (Status, error)

	// DeinitSession tears the session down on the subsystem.
	DeinitSession(ctx context.Context, sessionID uint32) (Status, error)

	// MulticastListUpdate adds or removes controlees on a controller
	// session. The returned statuses line up with the address list.
	MulticastListUpdate(ctx context.Context, sessionID uint32, action fira.ReconfigureAction,
		addresses [][]byte, subSessionIDs []uint32, subSessionKeys [][]byte) ([]Status, error)

	// SendData queues an in-band data transfer to a remote address.
	SendData(ctx context.Context, sessionID uint32, address []byte, data []byte) (Status, error)

	// QueryMaxDataSize reports the largest in-band payload the session
	// can carry.
	QueryMaxDataSize(ctx context.Context, sessionID uint32) (uint16, error)
}
