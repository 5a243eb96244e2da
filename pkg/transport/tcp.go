package transport

import (
	"io"
	"net"
	"sync"

	"github.com/pion/logging"
)

// TCP carries out-of-band frames over persistent TCP connections.
// It wraps a net.Listener and manages one connection per peer.
type TCP struct {
	listener net.Listener
	handler  FrameHandler
	closeCh  chan struct{}
	wg       sync.WaitGroup
	log      logging.LeveledLogger

	connsMu sync.RWMutex
	conns   map[string]*tcpConn

	linksMu sync.RWMutex
	links   map[string]func(frame []byte)

	mu      sync.RWMutex
	started bool
	closed  bool
}

// tcpConn serializes frame writes on one connection.
type tcpConn struct {
	conn net.Conn
	mu   sync.Mutex
}

// TCPConfig configures the TCP transport.
type TCPConfig struct {
	// Listener is an optional pre-existing Listener to use.
	// If nil, a new listener will be created using ListenAddr.
	Listener net.Listener

	// ListenAddr is the address to listen on (e.g., ":58328").
	// Ignored if Listener is provided.
	ListenAddr string

	// FrameHandler is called for received frames with no bound link.
	// Required.
	FrameHandler FrameHandler

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// NewTCP creates a new TCP transport with the given configuration.
func NewTCP(config TCPConfig) (*TCP, error) {
	if config.FrameHandler == nil {
		return nil, ErrNoHandler
	}

	t := &TCP{
		listener: config.Listener,
		handler:  config.FrameHandler,
		closeCh:  make(chan struct{}),
		conns:    make(map[string]*tcpConn),
		links:    make(map[string]func([]byte)),
	}

	if config.LoggerFactory != nil {
		t.log = config.LoggerFactory.NewLogger("transport")
	}

	if t.listener == nil {
		addr := config.ListenAddr
		if addr == "" {
			addr = ":0"
		}

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		t.listener = listener
	}

	return t, nil
}

// Start begins accepting connections and receiving frames.
func (t *TCP) Start() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.mu.Unlock()

	if t.log != nil {
		t.log.Infof("starting OOB transport on %s", t.listener.Addr())
	}

	t.wg.Add(1)
	go t.acceptLoop()

	return nil
}

// Stop closes all connections and the listener.
func (t *TCP) Stop() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.closed = true
	t.mu.Unlock()

	if t.log != nil {
		t.log.Info("stopping OOB transport")
	}

	close(t.closeCh)
	t.listener.Close()

	t.connsMu.Lock()
	for _, tc := range t.conns {
		tc.conn.Close()
	}
	t.conns = make(map[string]*tcpConn)
	t.connsMu.Unlock()

	t.wg.Wait()
	return nil
}

// Send sends one frame to the peer, dialing when no connection exists.
func (t *TCP) Send(frame []byte, addr net.Addr) error {
	t.mu.RLock()
	if t.closed {
		t.mu.RUnlock()
		return ErrClosed
	}
	t.mu.RUnlock()

	if addr == nil {
		return ErrInvalidAddress
	}

	tc, err := t.getOrCreateConn(addr)
	if err != nil {
		return err
	}

	if t.log != nil {
		t.log.Debugf("sending %d byte frame to %v", len(frame), addr)
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	return WriteFrame(tc.conn, frame)
}

// LocalAddr returns the local address the transport is listening on.
func (t *TCP) LocalAddr() net.Addr {
	return t.listener.Addr()
}

// Link binds the transport to one peer, giving the secure channel a
// point-to-point frame pipe.
func (t *TCP) Link(peer net.Addr) *Link {
	return &Link{t: t, peer: peer}
}

// AddConnection adds an existing connection to the transport.
// This is useful for testing with net.Pipe().
func (t *TCP) AddConnection(conn net.Conn) {
	tc := &tcpConn{conn: conn}

	t.connsMu.Lock()
	t.conns[conn.RemoteAddr().String()] = tc
	t.connsMu.Unlock()

	t.wg.Add(1)
	go t.handleConn(tc)
}

func (t *TCP) acceptLoop() {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.closeCh:
				return
			default:
				continue
			}
		}

		tc := &tcpConn{conn: conn}
		t.connsMu.Lock()
		t.conns[conn.RemoteAddr().String()] = tc
		t.connsMu.Unlock()

		t.wg.Add(1)
		go t.handleConn(tc)
	}
}

func (t *TCP) handleConn(tc *tcpConn) {
	defer t.wg.Done()

	remoteAddr := tc.conn.RemoteAddr()
	defer func() {
		tc.conn.Close()
		t.connsMu.Lock()
		delete(t.conns, remoteAddr.String())
		t.connsMu.Unlock()
	}()

	for {
		select {
		case <-t.closeCh:
			return
		default:
		}

		frame, err := ReadFrame(tc.conn)
		if err != nil {
			if err != io.EOF && t.log != nil {
				select {
				case <-t.closeCh:
				default:
					t.log.Warnf("read from %v: %v", remoteAddr, err)
				}
			}
			return
		}

		if t.log != nil {
			t.log.Debugf("received %d byte frame from %v", len(frame), remoteAddr)
		}

		t.dispatch(frame, remoteAddr)
	}
}

// dispatch delivers the frame to the peer's bound link when one
// exists, otherwise to the transport-wide handler.
func (t *TCP) dispatch(frame []byte, from net.Addr) {
	t.linksMu.RLock()
	receiver := t.links[from.String()]
	t.linksMu.RUnlock()

	if receiver != nil {
		receiver(frame)
		return
	}
	t.handler(frame, from)
}

func (t *TCP) getOrCreateConn(addr net.Addr) (*tcpConn, error) {
	addrStr := addr.String()

	t.connsMu.RLock()
	tc, ok := t.conns[addrStr]
	t.connsMu.RUnlock()
	if ok {
		return tc, nil
	}

	conn, err := net.Dial("tcp", addrStr)
	if err != nil {
		return nil, err
	}

	tc = &tcpConn{conn: conn}

	t.connsMu.Lock()
	// Check again in case another goroutine created it.
	if existing, ok := t.conns[addrStr]; ok {
		t.connsMu.Unlock()
		conn.Close()
		return existing, nil
	}
	t.conns[addrStr] = tc
	t.connsMu.Unlock()

	t.wg.Add(1)
	go t.handleConn(tc)

	return tc, nil
}

// Link is a point-to-point frame pipe bound to one peer. It satisfies
// the secure channel's transport contract.
type Link struct {
	t    *TCP
	peer net.Addr
}

// Send sends one frame to the bound peer.
func (l *Link) Send(frame []byte) error {
	return l.t.Send(frame, l.peer)
}

// RegisterReceiver routes frames from the bound peer to fn instead of
// the transport-wide handler.
func (l *Link) RegisterReceiver(fn func(frame []byte)) {
	l.t.linksMu.Lock()
	l.t.links[l.peer.String()] = fn
	l.t.linksMu.Unlock()
}

// Close unbinds the link; frames from the peer go back to the
// transport-wide handler.
func (l *Link) Close() {
	l.t.linksMu.Lock()
	delete(l.t.links, l.peer.String())
	l.t.linksMu.Unlock()
}
