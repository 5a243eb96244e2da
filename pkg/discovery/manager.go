package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/params"
)

// ManagerConfig holds configuration for the discovery Manager.
type ManagerConfig struct {
	// Port is the out-of-band transport port to advertise
	// (default: DefaultPort).
	Port int

	// Interfaces specifies which network interfaces to use.
	// If nil, all interfaces are used.
	Interfaces []net.Interface

	// BrowseTimeout is the default timeout for browse operations.
	// If zero, DefaultBrowseTimeout is used.
	BrowseTimeout time.Duration

	// LookupTimeout is the default timeout for lookup operations.
	// If zero, DefaultLookupTimeout is used.
	LookupTimeout time.Duration

	// ServerFactory is the factory for creating mDNS servers (for
	// testing).
	ServerFactory MDNSServerFactory

	// MDNSResolver is the mDNS resolver implementation (for testing).
	MDNSResolver MDNSResolver

	// LoggerFactory for creating loggers.
	LoggerFactory logging.LoggerFactory
}

// Manager coordinates advertising and resolution of out-of-band
// endpoints.
type Manager struct {
	config     ManagerConfig
	advertiser *Advertiser
	resolver   *Resolver

	mu     sync.RWMutex
	closed bool
}

// NewManager creates a new discovery Manager with the given
// configuration.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Port <= 0 {
		config.Port = DefaultPort
	}
	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	if config.LookupTimeout == 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	advertiser, err := NewAdvertiser(AdvertiserConfig{
		Port:          config.Port,
		Interfaces:    config.Interfaces,
		ServerFactory: config.ServerFactory,
		LoggerFactory: config.LoggerFactory,
	})
	if err != nil {
		return nil, err
	}

	resolver, err := NewResolver(ResolverConfig{
		MDNSResolver:  config.MDNSResolver,
		BrowseTimeout: config.BrowseTimeout,
		LookupTimeout: config.LookupTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		config:     config,
		advertiser: advertiser,
		resolver:   resolver,
	}, nil
}

// Close stops advertising and releases resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true

	if m.advertiser != nil {
		m.advertiser.Close()
	}
	return nil
}

func (m *Manager) checkOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// StartAdvertising begins advertising the device's out-of-band
// endpoint.
func (m *Manager) StartAdvertising(txt ServiceTXT) error {
	if err := m.checkOpen(); err != nil {
		return err
	}
	return m.advertiser.Start(txt)
}

// StopAdvertising stops the advertisement.
func (m *Manager) StopAdvertising() error {
	if err := m.checkOpen(); err != nil {
		return err
	}
	return m.advertiser.Stop()
}

// IsAdvertising reports whether the endpoint is currently advertised.
func (m *Manager) IsAdvertising() bool {
	if err := m.checkOpen(); err != nil {
		return false
	}
	return m.advertiser.IsAdvertising()
}

// Browse discovers out-of-band endpoints on the network.
func (m *Manager) Browse(ctx context.Context) (<-chan Endpoint, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.resolver.Browse(ctx)
}

// BrowseProtocol discovers endpoints advertising the given protocol.
func (m *Manager) BrowseProtocol(ctx context.Context, p params.Protocol) (<-chan Endpoint, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.resolver.BrowseProtocol(ctx, p)
}

// Lookup looks up a specific endpoint by instance name.
func (m *Manager) Lookup(ctx context.Context, instanceName string) (*Endpoint, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.resolver.Lookup(ctx, instanceName)
}

// DiscoverPeer finds the first endpoint advertising the given
// protocol.
func (m *Manager) DiscoverPeer(ctx context.Context, p params.Protocol) (*Endpoint, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.resolver.DiscoverPeer(ctx, p)
}

// Advertiser returns the underlying Advertiser.
func (m *Manager) Advertiser() *Advertiser {
	return m.advertiser
}

// Resolver returns the underlying Resolver.
func (m *Manager) Resolver() *Resolver {
	return m.resolver
}
