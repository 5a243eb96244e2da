// Package transport carries out-of-band secure channel traffic between
// UWB devices. Frames are length-prefixed byte blobs (APDUs and CSML
// messages); the transport neither inspects nor re-orders them.
package transport

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
)

// MaxFrameSize is the largest frame the transport carries. The length
// prefix is 16 bits.
const MaxFrameSize = 0xFFFF

// Transport errors.
var (
	// ErrClosed is returned when an operation is attempted on a closed
	// transport.
	ErrClosed = errors.New("transport: closed")

	// ErrInvalidAddress is returned when an invalid peer address is
	// provided.
	ErrInvalidAddress = errors.New("transport: invalid address")

	// ErrNoHandler is returned when no frame handler is configured.
	ErrNoHandler = errors.New("transport: no frame handler configured")

	// ErrAlreadyStarted is returned when Start is called on a running
	// transport.
	ErrAlreadyStarted = errors.New("transport: already started")

	// ErrFrameTooLarge is returned when a frame exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("transport: frame too large")
)

// FrameHandler is called for each received frame.
type FrameHandler func(frame []byte, from net.Addr)

// WriteFrame writes one length-prefixed frame.
func WriteFrame(w io.Writer, frame []byte) error {
	if len(frame) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(frame)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

// ReadFrame reads one length-prefixed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint16(prefix[:])
	frame := make([]byte, n)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}
