package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/openuwb/uwb/pkg/fira"
	"github.com/openuwb/uwb/pkg/params"
)

// TXT record keys for the _uwb-oob._tcp service.
const (
	// TXTKeyProtocols lists the supported ranging protocols,
	// comma-separated (e.g. "fira,ccc").
	TXTKeyProtocols = "pv"

	// TXTKeyFiraVersion is the device's FiRa protocol version
	// ("major.minor").
	TXTKeyFiraVersion = "fv"

	// TXTKeyCapabilityDigest is the truncated capability digest in hex.
	TXTKeyCapabilityDigest = "cd"

	// TXTKeyDeviceName is the human-readable device name (max 32 chars).
	TXTKeyDeviceName = "dn"
)

// MaxDeviceNameLength is the maximum length of the device name.
const MaxDeviceNameLength = 32

// CapabilityDigestLength is the truncated digest size in bytes.
const CapabilityDigestLength = 8

// DigestCapabilities computes the capability digest advertised in the
// TXT record: SHA-256 over the raw capability TLV blob, truncated.
func DigestCapabilities(capsTlv []byte) []byte {
	sum := sha256.Sum256(capsTlv)
	return sum[:CapabilityDigestLength]
}

// ServiceTXT holds the TXT record of an out-of-band endpoint.
type ServiceTXT struct {
	// Protocols are the ranging protocols the device supports
	// (required, at least one).
	Protocols []params.Protocol

	// FiraVersion is the device's FiRa protocol version (optional).
	FiraVersion    fira.ProtocolVersion
	FiraVersionSet bool

	// CapabilityDigest identifies the device's capability TLVs
	// (optional). See DigestCapabilities.
	CapabilityDigest []byte

	// DeviceName is the human-readable device name (optional, max 32
	// chars).
	DeviceName string
}

// Encode converts the TXT record to DNS-SD format strings.
func (s *ServiceTXT) Encode() []string {
	names := make([]string, 0, len(s.Protocols))
	for _, p := range s.Protocols {
		names = append(names, p.String())
	}
	txt := []string{fmt.Sprintf("%s=%s", TXTKeyProtocols, strings.Join(names, ","))}

	if s.FiraVersionSet {
		txt = append(txt, fmt.Sprintf("%s=%s", TXTKeyFiraVersion, s.FiraVersion))
	}

	if len(s.CapabilityDigest) > 0 {
		txt = append(txt, fmt.Sprintf("%s=%s", TXTKeyCapabilityDigest,
			hex.EncodeToString(s.CapabilityDigest)))
	}

	if s.DeviceName != "" {
		name := s.DeviceName
		if len(name) > MaxDeviceNameLength {
			name = name[:MaxDeviceNameLength]
		}
		txt = append(txt, fmt.Sprintf("%s=%s", TXTKeyDeviceName, name))
	}

	return txt
}

// Validate checks that the TXT record values are within limits.
func (s *ServiceTXT) Validate() error {
	if len(s.Protocols) == 0 {
		return ErrNoProtocols
	}
	for _, p := range s.Protocols {
		if !p.IsValid() {
			return fmt.Errorf("%w: protocol %d", ErrInvalidTXTRecord, p)
		}
	}
	if len(s.DeviceName) > MaxDeviceNameLength {
		return ErrInvalidDeviceName
	}
	return nil
}

// Supports reports whether the endpoint advertises the protocol.
func (s *ServiceTXT) Supports(p params.Protocol) bool {
	for _, sp := range s.Protocols {
		if sp == p {
			return true
		}
	}
	return false
}

// ParseProtocol maps a TXT protocol name back to the enum.
func ParseProtocol(name string) (params.Protocol, error) {
	switch name {
	case "fira":
		return params.ProtocolFira, nil
	case "ccc":
		return params.ProtocolCcc, nil
	case "radar":
		return params.ProtocolRadar, nil
	case "generic":
		return params.ProtocolGeneric, nil
	default:
		return 0, fmt.Errorf("%w: protocol %q", ErrInvalidTXTRecord, name)
	}
}

// ParseTXT parses raw TXT record strings into a key-value map.
func ParseTXT(records []string) map[string]string {
	result := make(map[string]string)
	for _, record := range records {
		if idx := strings.IndexByte(record, '='); idx > 0 {
			result[record[:idx]] = record[idx+1:]
		}
	}
	return result
}

// ParseServiceTXT parses raw TXT records into a ServiceTXT.
func ParseServiceTXT(records []string) (*ServiceTXT, error) {
	m := ParseTXT(records)
	txt := &ServiceTXT{}

	if v, ok := m[TXTKeyProtocols]; ok {
		for _, name := range strings.Split(v, ",") {
			p, err := ParseProtocol(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			txt.Protocols = append(txt.Protocols, p)
		}
	}

	if v, ok := m[TXTKeyFiraVersion]; ok {
		var major, minor uint8
		if _, err := fmt.Sscanf(v, "%d.%d", &major, &minor); err != nil {
			return nil, fmt.Errorf("%w: version %q", ErrInvalidTXTRecord, v)
		}
		txt.FiraVersion = fira.ProtocolVersion{Major: major, Minor: minor}
		txt.FiraVersionSet = true
	}

	if v, ok := m[TXTKeyCapabilityDigest]; ok {
		digest, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: digest %q", ErrInvalidTXTRecord, v)
		}
		txt.CapabilityDigest = digest
	}

	if v, ok := m[TXTKeyDeviceName]; ok {
		txt.DeviceName = v
	}

	return txt, nil
}
