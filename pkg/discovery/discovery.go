// Package discovery advertises and resolves the out-of-band transport
// endpoint of UWB devices over DNS-SD (mDNS).
//
// A device that accepts out-of-band secure channel traffic registers
// one _uwb-oob._tcp service instance. The TXT record carries the
// device's supported ranging protocols and a digest of its capability
// TLVs, so a peer can skip endpoints that cannot serve the session it
// wants before opening a connection.
package discovery

import "errors"

// DNS-SD service constants.
const (
	// ServiceOob is the DNS-SD service type for the out-of-band
	// transport endpoint.
	ServiceOob = "_uwb-oob._tcp"

	// DefaultDomain is the default mDNS domain.
	DefaultDomain = "local."

	// DefaultPort is the default out-of-band transport port.
	DefaultPort = 58328
)

// Package-level sentinel errors for discovery operations.
var (
	// ErrClosed is returned when an operation is attempted on a closed
	// component.
	ErrClosed = errors.New("discovery: closed")

	// ErrAlreadyStarted is returned when starting an advertisement that
	// is already running.
	ErrAlreadyStarted = errors.New("discovery: already started")

	// ErrNotStarted is returned when stopping an advertisement that was
	// never started.
	ErrNotStarted = errors.New("discovery: not started")

	// ErrEndpointNotFound is returned when a requested endpoint is not
	// found on the network.
	ErrEndpointNotFound = errors.New("discovery: endpoint not found")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("discovery: operation timed out")

	// ErrInvalidTXTRecord is returned when a TXT record has an invalid
	// format.
	ErrInvalidTXTRecord = errors.New("discovery: invalid TXT record format")

	// ErrNoProtocols is returned when an advertisement names no
	// supported protocols.
	ErrNoProtocols = errors.New("discovery: no supported protocols")

	// ErrInvalidDeviceName is returned when the device name exceeds the
	// maximum length.
	ErrInvalidDeviceName = errors.New("discovery: invalid device name (max 32 characters)")
)
