package discovery

import (
	"context"
	"net"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/openuwb/uwb/pkg/params"
)

// DefaultBrowseTimeout is the default timeout for browse operations.
const DefaultBrowseTimeout = 10 * time.Second

// DefaultLookupTimeout is the default timeout for lookup operations.
const DefaultLookupTimeout = 5 * time.Second

// Endpoint is a discovered out-of-band transport endpoint.
type Endpoint struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// HostName is the target host name.
	HostName string

	// Port is the out-of-band transport port.
	Port int

	// IPs contains the resolved IP addresses, sorted by preference.
	IPs []net.IP

	// TXT is the parsed TXT record; nil when the record did not parse.
	TXT *ServiceTXT

	// Text contains the raw TXT record key-value pairs.
	Text map[string]string
}

// PreferredIP returns the most preferred IP address, or nil when no
// addresses resolved.
func (e *Endpoint) PreferredIP() net.IP {
	if len(e.IPs) > 0 {
		return e.IPs[0]
	}
	return nil
}

// Addr returns the preferred "ip:port" dial address, or an empty
// string when no addresses resolved.
func (e *Endpoint) Addr() string {
	ip := e.PreferredIP()
	if ip == nil {
		return ""
	}
	return net.JoinHostPort(ip.String(), itoa(e.Port))
}

// Supports reports whether the endpoint advertises the protocol.
func (e *Endpoint) Supports(p params.Protocol) bool {
	return e.TXT != nil && e.TXT.Supports(p)
}

// MDNSResolver is the interface for mDNS service resolution.
// It allows for dependency injection in tests.
type MDNSResolver interface {
	// Browse browses for services of the given type.
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

	// Lookup looks up a specific service instance.
	Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// zeroconfResolver is the production implementation using
// grandcat/zeroconf.
type zeroconfResolver struct {
	resolver *zeroconf.Resolver
}

func newZeroconfResolver() (*zeroconfResolver, error) {
	r, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}
	return &zeroconfResolver{resolver: r}, nil
}

func (z *zeroconfResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return z.resolver.Browse(ctx, service, domain, entries)
}

func (z *zeroconfResolver) Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return z.resolver.Lookup(ctx, instance, service, domain, entries)
}

// ResolverConfig holds configuration for the Resolver.
type ResolverConfig struct {
	// MDNSResolver is the underlying mDNS resolver implementation.
	// If nil, the default zeroconf resolver is used.
	MDNSResolver MDNSResolver

	// BrowseTimeout is the timeout for browse operations.
	// If zero, DefaultBrowseTimeout is used.
	BrowseTimeout time.Duration

	// LookupTimeout is the timeout for lookup operations.
	// If zero, DefaultLookupTimeout is used.
	LookupTimeout time.Duration
}

// Resolver discovers out-of-band endpoints via DNS-SD.
type Resolver struct {
	config   ResolverConfig
	resolver MDNSResolver
}

// NewResolver creates a new Resolver with the given configuration.
func NewResolver(config ResolverConfig) (*Resolver, error) {
	resolver := config.MDNSResolver
	if resolver == nil {
		zr, err := newZeroconfResolver()
		if err != nil {
			return nil, err
		}
		resolver = zr
	}

	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	if config.LookupTimeout == 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	return &Resolver{
		config:   config,
		resolver: resolver,
	}, nil
}

// Browse discovers out-of-band endpoints on the network. The returned
// channel receives endpoints until the context is cancelled or the
// browse timeout expires.
func (r *Resolver) Browse(ctx context.Context) (<-chan Endpoint, error) {
	return r.browse(ctx, ServiceOob)
}

// BrowseProtocol discovers endpoints advertising the given protocol,
// using the protocol subtype PTR records for filtering.
func (r *Resolver) BrowseProtocol(ctx context.Context, p params.Protocol) (<-chan Endpoint, error) {
	return r.browse(ctx, "_"+p.String()+"._sub."+ServiceOob)
}

func (r *Resolver) browse(ctx context.Context, service string) (<-chan Endpoint, error) {
	results := make(chan Endpoint)
	entries := make(chan *zeroconf.ServiceEntry)

	// Apply the browse timeout when the context has no deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.BrowseTimeout)
		defer cancel()
	}

	go func() {
		defer close(results)

		go func() {
			defer close(entries)
			r.resolver.Browse(ctx, service, DefaultDomain, entries)
		}()

		for entry := range entries {
			select {
			case results <- entryToEndpoint(entry):
			case <-ctx.Done():
				return
			}
		}
	}()

	return results, nil
}

// Lookup looks up a specific endpoint by instance name.
func (r *Resolver) Lookup(ctx context.Context, instanceName string) (*Endpoint, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.LookupTimeout)
		defer cancel()
	}

	entries := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(entries)
		r.resolver.Lookup(ctx, instanceName, ServiceOob, DefaultDomain, entries)
	}()

	select {
	case entry, ok := <-entries:
		if !ok || entry == nil {
			return nil, ErrEndpointNotFound
		}
		ep := entryToEndpoint(entry)
		return &ep, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

// DiscoverPeer finds the first endpoint advertising the given
// protocol. Convenience wrapper around BrowseProtocol.
func (r *Resolver) DiscoverPeer(ctx context.Context, p params.Protocol) (*Endpoint, error) {
	endpoints, err := r.BrowseProtocol(ctx, p)
	if err != nil {
		return nil, err
	}

	for ep := range endpoints {
		if ep.Supports(p) {
			return &ep, nil
		}
	}
	return nil, ErrEndpointNotFound
}

// entryToEndpoint converts a zeroconf.ServiceEntry to an Endpoint.
func entryToEndpoint(entry *zeroconf.ServiceEntry) Endpoint {
	var allIPs []net.IP
	allIPs = append(allIPs, entry.AddrIPv6...)
	allIPs = append(allIPs, entry.AddrIPv4...)

	txt, err := ParseServiceTXT(entry.Text)
	if err != nil {
		txt = nil
	}

	return Endpoint{
		InstanceName: entry.Instance,
		HostName:     entry.HostName,
		Port:         entry.Port,
		IPs:          SortIPsByPreference(allIPs),
		TXT:          txt,
		Text:         ParseTXT(entry.Text),
	}
}

// itoa converts a non-negative integer to a string.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
