// Package fira defines the parameter types and constants for FiRa
// ranging sessions: open-session configuration, ranging reconfiguration,
// controlee updates, and the device capability (specification) model.
//
// Values follow the FiRa UCI generic technical specification; the
// open-session defaults match a FiRa-certified controller stack.
package fira

import "fmt"

// ProtocolVersion is a FiRa major.minor protocol version.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// Well-known protocol versions.
var (
	Version10 = ProtocolVersion{1, 0}
	Version11 = ProtocolVersion{1, 1}
	Version20 = ProtocolVersion{2, 0}
)

// String returns "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is other or newer.
func (v ProtocolVersion) AtLeast(other ProtocolVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// VersionFromBytes decodes a {major, minor} pair at off.
func VersionFromBytes(b []byte, off int) (ProtocolVersion, error) {
	if len(b) < off+2 {
		return ProtocolVersion{}, fmt.Errorf("fira: version needs 2 bytes, have %d", len(b)-off)
	}
	return ProtocolVersion{Major: b[off], Minor: b[off+1]}, nil
}
