package uwbd

import (
	"bytes"
	"context"
	"encoding/hex"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/openuwb/uwb/pkg/discovery"
	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/params"
	"github.com/openuwb/uwb/pkg/secure"
	"github.com/openuwb/uwb/pkg/secure/iso7816"
	"github.com/openuwb/uwb/pkg/session"
	"github.com/openuwb/uwb/pkg/tlv"
	"github.com/openuwb/uwb/pkg/transport"
)

type stubNative struct{}

func (stubNative) InitSession(context.Context, uint32, session.Type) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) SetAppConfig(context.Context, uint32, *tlv.Buffer) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) AppConfig(context.Context, uint32) ([]byte, int, error) {
	return nil, 0, nil
}

func (stubNative) StartRanging(context.Context, uint32) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) StopRanging(context.Context, uint32) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) DeinitSession(context.Context, uint32) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) MulticastListUpdate(_ context.Context, _ uint32, _ fira.ReconfigureAction,
	addresses [][]byte, _ []uint32, _ [][]byte) ([]session.Status, error) {
	return make([]session.Status, len(addresses)), nil
}

func (stubNative) SendData(context.Context, uint32, []byte, []byte) (session.Status, error) {
	return session.StatusOk, nil
}

func (stubNative) QueryMaxDataSize(context.Context, uint32) (uint16, error) {
	return 0, nil
}

type stubMDNSServer struct{}

func (stubMDNSServer) Shutdown() {}

type stubServerFactory struct {
	mu       sync.Mutex
	services []string
}

func (f *stubServerFactory) Register(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (discovery.MDNSServer, error) {
	f.mu.Lock()
	f.services = append(f.services, service)
	f.mu.Unlock()
	return stubMDNSServer{}, nil
}

func (f *stubServerFactory) registered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.services))
	copy(out, f.services)
	return out
}

func testService(t *testing.T, cfg Config, cb session.Callbacks) (*Service, *stubServerFactory) {
	t.Helper()
	factory := &stubServerFactory{}
	svc, err := New(cfg, Deps{
		Native:        stubNative{},
		Callbacks:     cb,
		ServerFactory: factory,
		MDNSResolver:  discovery.NewMockMDNSResolver(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, factory
}

func TestServiceRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.LogLevel = "disabled"
	cfg.Protocols = []string{"fira", "ccc"}

	opened := make(chan struct{}, 1)
	svc, factory := testService(t, cfg, session.Callbacks{
		OnOpened: func(*session.Session) { opened <- struct{}{} },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	// The advertisement carries the protocol subtypes.
	deadline := time.After(2 * time.Second)
	for len(factory.registered()) == 0 {
		select {
		case <-deadline:
			t.Fatal("advertisement never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if got := factory.registered()[0]; got != discovery.ServiceOob+",_fira,_ccc" {
		t.Fatalf("service = %q", got)
	}

	open, err := fira.NewOpenSessionBuilder().
		ProtocolVersion(fira.Version11).
		SessionID(7).
		DeviceType(fira.DeviceTypeController).
		DeviceRole(fira.RoleInitiator).
		RangingRoundUsage(fira.UsageSsTwrDeferred).
		MultiNodeMode(fira.MultiNodeUnicast).
		DeviceAddress([]byte{0x04, 0x06}).
		DestAddressList([]byte{0x04, 0x07}).
		VendorID([]byte{0x05, 0x78}).
		StaticStsIV([]byte{0x1A, 0x55, 0x77, 0x47, 0x7E, 0x7D}).
		Build()
	if err != nil {
		t.Fatalf("build params: %v", err)
	}
	if err := svc.Sessions().OpenSession(1, 7, params.ProtocolFira, open); err != nil {
		t.Fatalf("open session: %v", err)
	}

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("session never opened")
	}
	if svc.Sessions().Count() != 1 {
		t.Fatalf("count = %d", svc.Sessions().Count())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run never returned")
	}

	// Shutdown deinits the open sessions.
	deadline = time.After(2 * time.Second)
	for svc.Sessions().Count() != 0 {
		select {
		case <-deadline:
			t.Fatalf("count after shutdown = %d", svc.Sessions().Count())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// stubSecureElement acknowledges every applet command; the
// initiate-transaction response carries outbound data for the peer.
type stubSecureElement struct {
	mu   sync.Mutex
	open bool
}

func (e *stubSecureElement) Init(context.Context) error { return nil }

func (e *stubSecureElement) OpenChannel(context.Context) error {
	e.mu.Lock()
	e.open = true
	e.mu.Unlock()
	return nil
}

func (e *stubSecureElement) IsChannelOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *stubSecureElement) Transmit(_ context.Context, cmd iso7816.CommandApdu) (iso7816.ResponseApdu, error) {
	if cmd.Ins == 0x12 {
		raw, _ := hex.DecodeString("71038101a59000")
		return iso7816.ParseResponseApdu(raw)
	}
	return iso7816.ResponseApduFromStatus(iso7816.SwNoError), nil
}

func (e *stubSecureElement) CloseChannel(context.Context) error {
	e.mu.Lock()
	e.open = false
	e.mu.Unlock()
	return nil
}

func TestServiceOpenSecureChannel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.LogLevel = "disabled"

	svc, _ := testService(t, cfg, session.Callbacks{})

	pipe := transport.NewPipe()
	defer pipe.Close()
	c0, c1 := pipe.Conns()
	svc.Oob().AddConnection(c0)

	peer, err := transport.NewTCP(transport.TCPConfig{
		ListenAddr:   "127.0.0.1:0",
		FrameHandler: func([]byte, net.Addr) {},
	})
	if err != nil {
		t.Fatalf("new peer transport: %v", err)
	}
	defer peer.Stop()
	peer.AddConnection(c1)

	frames := make(chan []byte, 4)
	peer.Link(c1.RemoteAddr()).RegisterReceiver(func(frame []byte) { frames <- frame })

	ch := svc.OpenSecureChannel(c0.RemoteAddr(), &stubSecureElement{}, secure.RoleInitiator, secure.SessionInfo{
		AdfOid:      []byte{0x2A, 0x03},
		PeerAdfOids: [][]byte{{0x2A, 0x03}},
	})
	if err := ch.Init(secure.Callbacks{}); err != nil {
		t.Fatalf("init channel: %v", err)
	}
	defer ch.Close()

	// The initiate-transaction outbound data crosses the OOB link.
	select {
	case frame := <-frames:
		if !bytes.Equal(frame, []byte{0xA5}) {
			t.Fatalf("frame = %x, want a5", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame reached the peer")
	}
}

func TestServiceRequiresNative(t *testing.T) {
	if _, err := New(DefaultConfig(), Deps{}); err == nil {
		t.Fatal("service created without a native interface")
	}
}

func TestServiceMetricsRegistry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.LogLevel = "disabled"

	svc, _ := testService(t, cfg, session.Callbacks{})
	families, err := svc.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("registry has no collectors")
	}
}
