// Package params translates protocol parameter structures to and from
// their TLV wire form. Each supported protocol has an encoder for
// session configuration and a decoder for capability and response
// blobs. NewEncoder and NewDecoder dispatch on the Protocol enum; the
// concrete decoders return protocol-specific types, with GenericDecoder
// composing all of them for combined capability blobs.
package params

import (
	"errors"
	"fmt"

	"github.com/pion/logging"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/tlv"
)

// Protocol identifies a supported ranging protocol. The set is closed:
// dispatch happens on this enum, never on protocol name strings.
type Protocol int

const (
	ProtocolFira Protocol = iota
	ProtocolCcc
	ProtocolRadar
	ProtocolGeneric
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolFira:
		return "fira"
	case ProtocolCcc:
		return "ccc"
	case ProtocolRadar:
		return "radar"
	case ProtocolGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// IsValid reports whether the protocol is defined.
func (p Protocol) IsValid() bool {
	return p >= ProtocolFira && p <= ProtocolGeneric
}

// Errors returned by encoders and decoders.
var (
	ErrUnsupportedProtocol = errors.New("params: unsupported protocol")
	ErrUnsupportedParams   = errors.New("params: unsupported parameter type")
	ErrDecode              = errors.New("params: decode failed")
)

// DeviceConfig carries per-device feature switches that influence
// encoding and decoding.
type DeviceConfig struct {
	// CccRangeDataNtfConfig enables encoding of range data notification
	// configuration for CCC sessions.
	CccRangeDataNtfConfig bool `yaml:"ccc_range_data_ntf_config"`

	// CccSyncCodesLittleEndian selects the byte order of the CCC sync
	// code capability bitmap.
	CccSyncCodesLittleEndian bool `yaml:"ccc_sync_codes_little_endian"`

	// UseUwbsUciVersion makes the FiRa encoder follow the UWB
	// subsystem's UCI version instead of the session's protocol
	// version when picking version-gated records.
	UseUwbsUciVersion bool `yaml:"use_uwbs_uci_version"`
}

// Encoder produces session configuration TLVs for one protocol.
// uwbsVersion is the FiRa protocol version of the UWB subsystem; it
// gates version-dependent records.
type Encoder interface {
	// Encode translates a protocol parameter struct to TLVs. It
	// returns ErrUnsupportedParams when the struct does not belong to
	// the encoder's protocol.
	Encode(p any, uwbsVersion fira.ProtocolVersion) (*tlv.Buffer, error)
}

// NewEncoder returns the encoder for a protocol.
func NewEncoder(p Protocol, cfg DeviceConfig) (Encoder, error) {
	switch p {
	case ProtocolFira:
		return &FiraEncoder{cfg: cfg}, nil
	case ProtocolCcc:
		return &CccEncoder{cfg: cfg}, nil
	case ProtocolRadar:
		return &RadarEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, p)
	}
}

// Decoder parses capability TLVs for one protocol. Callers that know
// the protocol statically should use the concrete decoders instead;
// Capabilities exists for protocol-keyed dispatch and returns the
// protocol's specification struct as any.
type Decoder interface {
	Capabilities(tlvs *tlv.DecoderBuffer) (any, error)
}

// NewDecoder returns the capability decoder for a protocol.
func NewDecoder(p Protocol, cfg DeviceConfig, loggerFactory logging.LoggerFactory) (Decoder, error) {
	switch p {
	case ProtocolFira:
		return NewFiraDecoder(), nil
	case ProtocolCcc:
		return NewCccDecoder(cfg), nil
	case ProtocolRadar:
		return NewRadarDecoder(), nil
	case ProtocolGeneric:
		return NewGenericDecoder(cfg, loggerFactory), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, p)
	}
}
