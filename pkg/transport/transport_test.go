package transport

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/openuwb/uwb/pkg/secure"
)

// A bound link carries the secure channel's out-of-band traffic.
var _ secure.Transport = (*Link)(nil)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	frames := [][]byte{
		{0x80, 0xC2, 0x00, 0x00},
		{},
		{0xAA},
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	for _, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("frame = %x, want %x", got, want)
		}
	}
}

func TestFrameEncoding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []byte{0x00, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("encoded = %x, want %x", buf.Bytes(), want)
	}
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, make([]byte, MaxFrameSize+1)); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameTruncated(t *testing.T) {
	if _, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x05, 0x01})); err == nil {
		t.Fatal("truncated frame read succeeded")
	}
}

func waitFrame(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-ch:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestTCPLoopback(t *testing.T) {
	received := make(chan []byte, 4)
	server, err := NewTCP(TCPConfig{
		ListenAddr: "127.0.0.1:0",
		FrameHandler: func(frame []byte, from net.Addr) {
			received <- frame
		},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer server.Stop()

	client, err := NewTCP(TCPConfig{
		ListenAddr:   "127.0.0.1:0",
		FrameHandler: func([]byte, net.Addr) {},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Start(); err != nil {
		t.Fatalf("start client: %v", err)
	}
	defer client.Stop()

	want := []byte{0x80, 0xA5, 0x00, 0x00}
	if err := client.Send(want, server.LocalAddr()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := waitFrame(t, received); !bytes.Equal(got, want) {
		t.Fatalf("frame = %x, want %x", got, want)
	}

	// The dialed connection is reused for the next frame.
	if err := client.Send([]byte{0x01}, server.LocalAddr()); err != nil {
		t.Fatalf("second send: %v", err)
	}
	waitFrame(t, received)
}

func TestTCPLinkOverPipe(t *testing.T) {
	pipe := NewPipe()
	defer pipe.Close()
	c0, c1 := pipe.Conns()

	unbound := make(chan []byte, 4)
	t0, err := NewTCP(TCPConfig{
		ListenAddr:   "127.0.0.1:0",
		FrameHandler: func(frame []byte, from net.Addr) { unbound <- frame },
	})
	if err != nil {
		t.Fatalf("new t0: %v", err)
	}
	defer t0.Stop()

	t1, err := NewTCP(TCPConfig{
		ListenAddr:   "127.0.0.1:0",
		FrameHandler: func([]byte, net.Addr) {},
	})
	if err != nil {
		t.Fatalf("new t1: %v", err)
	}
	defer t1.Stop()

	t0.AddConnection(c0)
	t1.AddConnection(c1)

	// Frames from an unbound peer go to the transport handler.
	if err := t1.Send([]byte{0x11}, c1.RemoteAddr()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := waitFrame(t, unbound); !bytes.Equal(got, []byte{0x11}) {
		t.Fatalf("frame = %x", got)
	}

	// A bound link takes over delivery for its peer.
	linked := make(chan []byte, 4)
	link := t0.Link(c0.RemoteAddr())
	link.RegisterReceiver(func(frame []byte) { linked <- frame })

	if err := t1.Send([]byte{0x22}, c1.RemoteAddr()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := waitFrame(t, linked); !bytes.Equal(got, []byte{0x22}) {
		t.Fatalf("frame = %x", got)
	}

	// Link sends reach the peer's handler symmetrically.
	peerLinked := make(chan []byte, 4)
	peerLink := t1.Link(c1.RemoteAddr())
	peerLink.RegisterReceiver(func(frame []byte) { peerLinked <- frame })

	if err := link.Send([]byte{0x33}); err != nil {
		t.Fatalf("link send: %v", err)
	}
	if got := waitFrame(t, peerLinked); !bytes.Equal(got, []byte{0x33}) {
		t.Fatalf("frame = %x", got)
	}

	// Closing the link routes the peer's frames back to the handler.
	link.Close()
	if err := t1.Send([]byte{0x44}, c1.RemoteAddr()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := waitFrame(t, unbound); !bytes.Equal(got, []byte{0x44}) {
		t.Fatalf("frame = %x", got)
	}
}

func TestTCPSendAfterStop(t *testing.T) {
	tr, err := NewTCP(TCPConfig{
		ListenAddr:   "127.0.0.1:0",
		FrameHandler: func([]byte, net.Addr) {},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := tr.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tr.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := tr.Send([]byte{0x01}, tr.LocalAddr()); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestTCPNoHandler(t *testing.T) {
	if _, err := NewTCP(TCPConfig{}); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("err = %v, want ErrNoHandler", err)
	}
}
