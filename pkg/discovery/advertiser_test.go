package discovery

import (
	"errors"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/openuwb/uwb/pkg/params"
)

type mockServer struct {
	shutdowns int
}

func (m *mockServer) Shutdown() { m.shutdowns++ }

type mockServerFactory struct {
	mu       sync.Mutex
	err      error
	servers  []*mockServer
	services []string
	txts     [][]string
	ports    []int
}

func (f *mockServerFactory) Register(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (MDNSServer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := &mockServer{}
	f.servers = append(f.servers, s)
	f.services = append(f.services, service)
	f.txts = append(f.txts, txt)
	f.ports = append(f.ports, port)
	return s, nil
}

func firaCccTXT() ServiceTXT {
	return ServiceTXT{Protocols: []params.Protocol{params.ProtocolFira, params.ProtocolCcc}}
}

func TestAdvertiserStartStop(t *testing.T) {
	factory := &mockServerFactory{}
	a, err := NewAdvertiser(AdvertiserConfig{Port: 4242, ServerFactory: factory})
	if err != nil {
		t.Fatalf("new advertiser: %v", err)
	}

	if err := a.Start(firaCccTXT()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !a.IsAdvertising() {
		t.Fatal("not advertising after start")
	}
	if len(a.InstanceName()) != 16 {
		t.Fatalf("instance name = %q", a.InstanceName())
	}
	if factory.ports[0] != 4242 {
		t.Fatalf("port = %d", factory.ports[0])
	}

	// Subtype PTR records per protocol.
	if got := factory.services[0]; got != ServiceOob+",_fira,_ccc" {
		t.Fatalf("service = %q", got)
	}
	if got := factory.txts[0][0]; got != "pv=fira,ccc" {
		t.Fatalf("txt = %q", got)
	}

	if err := a.Start(firaCccTXT()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start err = %v", err)
	}

	if err := a.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if a.IsAdvertising() || a.InstanceName() != "" {
		t.Fatal("still advertising after stop")
	}
	if factory.servers[0].shutdowns != 1 {
		t.Fatalf("shutdowns = %d", factory.servers[0].shutdowns)
	}

	if err := a.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("second stop err = %v", err)
	}
}

func TestAdvertiserValidation(t *testing.T) {
	a, err := NewAdvertiser(AdvertiserConfig{ServerFactory: &mockServerFactory{}})
	if err != nil {
		t.Fatalf("new advertiser: %v", err)
	}
	if err := a.Start(ServiceTXT{}); !errors.Is(err, ErrNoProtocols) {
		t.Fatalf("err = %v, want ErrNoProtocols", err)
	}
}

func TestAdvertiserRegisterFailure(t *testing.T) {
	factory := &mockServerFactory{err: errors.New("bind failed")}
	a, err := NewAdvertiser(AdvertiserConfig{ServerFactory: factory})
	if err != nil {
		t.Fatalf("new advertiser: %v", err)
	}
	if err := a.Start(firaCccTXT()); err == nil || !strings.Contains(err.Error(), "bind failed") {
		t.Fatalf("err = %v", err)
	}
	if a.IsAdvertising() {
		t.Fatal("advertising after failed registration")
	}
}

func TestAdvertiserClose(t *testing.T) {
	factory := &mockServerFactory{}
	a, err := NewAdvertiser(AdvertiserConfig{ServerFactory: factory})
	if err != nil {
		t.Fatalf("new advertiser: %v", err)
	}
	if err := a.Start(firaCccTXT()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if factory.servers[0].shutdowns != 1 {
		t.Fatalf("shutdowns = %d", factory.servers[0].shutdowns)
	}
	if err := a.Start(firaCccTXT()); !errors.Is(err, ErrClosed) {
		t.Fatalf("start after close err = %v", err)
	}
	if err := a.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second close err = %v", err)
	}
}

func TestAdvertiserDefaultPort(t *testing.T) {
	factory := &mockServerFactory{}
	a, err := NewAdvertiser(AdvertiserConfig{ServerFactory: factory})
	if err != nil {
		t.Fatalf("new advertiser: %v", err)
	}
	if err := a.Start(firaCccTXT()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if factory.ports[0] != DefaultPort {
		t.Fatalf("port = %d, want %d", factory.ports[0], DefaultPort)
	}
}
