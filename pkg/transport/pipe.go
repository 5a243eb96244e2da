package transport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/test"
)

// Pipe provides bidirectional in-memory stream communication between
// two endpoints. It wraps pion's test.Bridge and pumps queued data in
// a background goroutine, so tests run without real network I/O.
type Pipe struct {
	bridge *test.Bridge

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewPipe creates a new bidirectional pipe with automatic delivery.
func NewPipe() *Pipe {
	p := &Pipe{
		bridge: test.NewBridge(),
		stopCh: make(chan struct{}),
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				p.bridge.Tick()
			}
		}
	}()

	return p
}

// Conn0 returns the connection for endpoint 0.
func (p *Pipe) Conn0() net.Conn {
	return p.bridge.GetConn0()
}

// Conn1 returns the connection for endpoint 1.
func (p *Pipe) Conn1() net.Conn {
	return p.bridge.GetConn1()
}

// Close closes both endpoints and stops the delivery goroutine.
func (p *Pipe) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()

	err0 := p.bridge.GetConn0().Close()
	err1 := p.bridge.GetConn1().Close()
	if err0 != nil {
		return err0
	}
	return err1
}

// PipeAddr implements net.Addr for pipe endpoints.
type PipeAddr struct {
	ID int
}

// Network returns "pipe".
func (a PipeAddr) Network() string { return "pipe" }

// String returns the endpoint's address.
func (a PipeAddr) String() string { return fmt.Sprintf("pipe:%d", a.ID) }

// pipeConn wraps a bridge connection with pipe addresses.
type pipeConn struct {
	net.Conn
	localAddr  PipeAddr
	remoteAddr PipeAddr
}

func (c *pipeConn) LocalAddr() net.Addr  { return c.localAddr }
func (c *pipeConn) RemoteAddr() net.Addr { return c.remoteAddr }

// Conns returns the pipe's endpoints wrapped with pipe addresses, for
// handing to TCP.AddConnection.
func (p *Pipe) Conns() (net.Conn, net.Conn) {
	c0 := &pipeConn{Conn: p.Conn0(), localAddr: PipeAddr{ID: 0}, remoteAddr: PipeAddr{ID: 1}}
	c1 := &pipeConn{Conn: p.Conn1(), localAddr: PipeAddr{ID: 1}, remoteAddr: PipeAddr{ID: 0}}
	return c0, c1
}
