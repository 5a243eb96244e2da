package secure

import (
	"context"

	"github.com/openuwb/uwb/pkg/secure/iso7816"
)

// SecureElement is the host's interface to the secure element hosting
// the FiRa applet. Init binds the SE service; OpenChannel opens the
// logical channel to the applet.
type SecureElement interface {
	Init(ctx context.Context) error
	OpenChannel(ctx context.Context) error
	IsChannelOpen() bool
	Transmit(ctx context.Context, cmd iso7816.CommandApdu) (iso7816.ResponseApdu, error)
	CloseChannel(ctx context.Context) error
}

// Transport is the out-of-band link to the peer device. Received data
// is delivered to the registered receiver until the channel is closed.
type Transport interface {
	Send(data []byte) error
	RegisterReceiver(fn func(data []byte))
}
