package uwbd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pion/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openuwb/uwb/pkg/discovery"
	"github.com/openuwb/uwb/pkg/secure"
	"github.com/openuwb/uwb/pkg/session"
	"github.com/openuwb/uwb/pkg/transport"
)

// Deps carries the service's external dependencies. Native is
// required; the rest default to production implementations and exist
// for tests.
type Deps struct {
	// Native is the UCI command surface of the UWB subsystem.
	Native session.NativeInterface

	// Callbacks receives session lifecycle events.
	Callbacks session.Callbacks

	// Listener overrides the out-of-band transport listener.
	Listener net.Listener

	// ServerFactory overrides the mDNS registration backend.
	ServerFactory discovery.MDNSServerFactory

	// MDNSResolver overrides the mDNS resolution backend.
	MDNSResolver discovery.MDNSResolver
}

// Service wires the daemon's components together.
type Service struct {
	cfg           Config
	log           logging.LeveledLogger
	loggerFactory logging.LoggerFactory

	registry *prometheus.Registry
	sessions *session.Manager
	oob      *transport.TCP
	disc     *discovery.Manager
	metrics  *http.Server
}

// New creates the service from configuration and dependencies.
func New(cfg Config, deps Deps) (*Service, error) {
	if deps.Native == nil {
		return nil, fmt.Errorf("uwbd: native interface is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loggerFactory, err := cfg.loggerFactory()
	if err != nil {
		return nil, err
	}

	uwbsVersion, err := cfg.uwbsVersion()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	s := &Service{
		cfg:           cfg,
		log:           loggerFactory.NewLogger("uwbd"),
		loggerFactory: loggerFactory,
		registry:      registry,
	}

	s.sessions = session.NewManager(deps.Native, deps.Callbacks, session.Config{
		MaxSessions:   cfg.MaxSessions,
		Device:        cfg.Device,
		UwbsVersion:   uwbsVersion,
		LoggerFactory: loggerFactory,
		Metrics:       session.NewMetrics(registry),
	})

	s.oob, err = transport.NewTCP(transport.TCPConfig{
		Listener:      deps.Listener,
		ListenAddr:    cfg.ListenAddr,
		FrameHandler:  s.handleUnboundFrame,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return nil, fmt.Errorf("uwbd: oob transport: %w", err)
	}

	s.disc, err = discovery.NewManager(discovery.ManagerConfig{
		Port:          oobPort(s.oob.LocalAddr()),
		ServerFactory: deps.ServerFactory,
		MDNSResolver:  deps.MDNSResolver,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return nil, fmt.Errorf("uwbd: discovery: %w", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		s.metrics = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	}

	return s, nil
}

// Run starts the daemon and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.oob.Start(); err != nil {
		return fmt.Errorf("uwbd: start oob transport: %w", err)
	}

	txt, err := s.serviceTXT()
	if err != nil {
		return err
	}
	if err := s.disc.StartAdvertising(txt); err != nil {
		s.log.Warnf("advertising failed, continuing without discovery: %v", err)
	}

	if s.metrics != nil {
		go func() {
			s.log.Infof("serving metrics on %s", s.cfg.MetricsAddr)
			if err := s.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.log.Errorf("metrics server: %v", err)
			}
		}()
	}

	s.log.Infof("uwbd running, oob on %s", s.oob.LocalAddr())
	<-ctx.Done()

	return s.shutdown()
}

func (s *Service) shutdown() error {
	s.log.Info("shutting down")

	s.disc.Close()
	s.sessions.DeinitAll()

	if s.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.metrics.Shutdown(shutdownCtx)
	}

	return s.oob.Stop()
}

// serviceTXT builds the mDNS TXT record from the configuration.
func (s *Service) serviceTXT() (discovery.ServiceTXT, error) {
	protocols, err := s.cfg.protocols()
	if err != nil {
		return discovery.ServiceTXT{}, err
	}
	version, err := s.cfg.uwbsVersion()
	if err != nil {
		return discovery.ServiceTXT{}, err
	}
	return discovery.ServiceTXT{
		Protocols:      protocols,
		FiraVersion:    version,
		FiraVersionSet: true,
		DeviceName:     s.cfg.DeviceName,
	}, nil
}

// handleUnboundFrame receives out-of-band frames from peers with no
// bound secure channel link.
func (s *Service) handleUnboundFrame(frame []byte, from net.Addr) {
	s.log.Debugf("dropping %d byte frame from unbound peer %v", len(frame), from)
}

// OpenSecureChannel creates a CSML secure channel to a peer over the
// out-of-band transport. The caller drives setup via Channel.Init; the
// link is released when the channel terminates.
func (s *Service) OpenSecureChannel(peer net.Addr, se secure.SecureElement, role secure.Role, info secure.SessionInfo) *secure.Channel {
	return secure.NewChannel(se, s.oob.Link(peer), role, info, secure.Config{
		LoggerFactory: s.loggerFactory,
	})
}

// Sessions returns the session manager.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Oob returns the out-of-band transport.
func (s *Service) Oob() *transport.TCP {
	return s.oob
}

// Discovery returns the discovery manager.
func (s *Service) Discovery() *discovery.Manager {
	return s.disc
}

// Registry returns the Prometheus registry.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// LoggerFactory returns the daemon-wide logger factory.
func (s *Service) LoggerFactory() logging.LoggerFactory {
	return s.loggerFactory
}

// oobPort extracts the TCP port from the transport address.
func oobPort(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return discovery.DefaultPort
}
