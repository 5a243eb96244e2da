package iso7816

import (
	"errors"
	"fmt"
)

// Errors returned by the BER-TLV codec.
var (
	ErrTlvTruncated = errors.New("iso7816: truncated TLV record")
	ErrTlvBadLength = errors.New("iso7816: unsupported TLV length form")
	ErrTlvValueLong = errors.New("iso7816: TLV value exceeds 65535 bytes")
)

// Tag is a one- or two-byte BER-TLV tag. Two-byte tags carry the first
// byte in the high 8 bits.
type Tag uint16

// Encode returns the tag bytes.
func (t Tag) Encode() []byte {
	if t > 0xFF {
		return []byte{byte(t >> 8), byte(t)}
	}
	return []byte{byte(t)}
}

// String renders the tag in hex.
func (t Tag) String() string {
	if t > 0xFF {
		return fmt.Sprintf("%04X", uint16(t))
	}
	return fmt.Sprintf("%02X", uint16(t))
}

// Tlv is one BER-TLV record.
type Tlv struct {
	Tag   Tag
	Value []byte
}

// NewTlv builds a record with a raw value.
func NewTlv(tag Tag, value []byte) Tlv {
	return Tlv{Tag: tag, Value: value}
}

// NestedTlv builds a constructed record whose value is the encoding of
// the child records.
func NestedTlv(tag Tag, children ...Tlv) Tlv {
	return Tlv{Tag: tag, Value: EncodeTlvs(children...)}
}

// Encode serializes the record, using the definite length forms up to
// two length bytes. A value longer than 65535 bytes cannot be
// represented and is a programming error: Encode panics with
// ErrTlvValueLong. Applet command payloads are bounded well below the
// limit, so callers do not handle this at runtime.
func (t Tlv) Encode() []byte {
	out := t.Tag.Encode()
	n := len(t.Value)
	switch {
	case n < 0x80:
		out = append(out, byte(n))
	case n <= 0xFF:
		out = append(out, 0x81, byte(n))
	case n <= 0xFFFF:
		out = append(out, 0x82, byte(n>>8), byte(n))
	default:
		// Not representable in the two-byte definite length form.
		panic(ErrTlvValueLong)
	}
	return append(out, t.Value...)
}

// EncodeTlvs concatenates the encodings of the records. It panics like
// Tlv.Encode on an oversized value.
func EncodeTlvs(tlvs ...Tlv) []byte {
	var out []byte
	for _, t := range tlvs {
		out = append(out, t.Encode()...)
	}
	return out
}

// TlvMap groups parsed records by tag, preserving the order of records
// sharing a tag.
type TlvMap map[Tag][]Tlv

// Get returns the first record with the tag.
func (m TlvMap) Get(tag Tag) (Tlv, bool) {
	tlvs := m[tag]
	if len(tlvs) == 0 {
		return Tlv{}, false
	}
	return tlvs[0], true
}

// ParseTlvs parses a sequence of BER-TLV records.
func ParseTlvs(data []byte) (TlvMap, error) {
	out := make(TlvMap)
	for len(data) > 0 {
		tlv, rest, err := parseTlv(data)
		if err != nil {
			return nil, err
		}
		out[tlv.Tag] = append(out[tlv.Tag], tlv)
		data = rest
	}
	return out, nil
}

// ParseOneTlv parses a single leading BER-TLV record.
func ParseOneTlv(data []byte) (Tlv, error) {
	tlv, _, err := parseTlv(data)
	return tlv, err
}

func parseTlv(data []byte) (Tlv, []byte, error) {
	if len(data) == 0 {
		return Tlv{}, nil, ErrTlvTruncated
	}
	var tag Tag
	i := 0
	if data[0]&0x1F == 0x1F {
		if len(data) < 2 {
			return Tlv{}, nil, ErrTlvTruncated
		}
		tag = Tag(uint16(data[0])<<8 | uint16(data[1]))
		i = 2
	} else {
		tag = Tag(data[0])
		i = 1
	}

	if len(data) <= i {
		return Tlv{}, nil, ErrTlvTruncated
	}
	var n int
	switch l := data[i]; {
	case l < 0x80:
		n = int(l)
		i++
	case l == 0x81:
		if len(data) < i+2 {
			return Tlv{}, nil, ErrTlvTruncated
		}
		n = int(data[i+1])
		i += 2
	case l == 0x82:
		if len(data) < i+3 {
			return Tlv{}, nil, ErrTlvTruncated
		}
		n = int(data[i+1])<<8 | int(data[i+2])
		i += 3
	default:
		return Tlv{}, nil, fmt.Errorf("%w: %02X", ErrTlvBadLength, l)
	}

	if len(data) < i+n {
		return Tlv{}, nil, ErrTlvTruncated
	}
	return Tlv{Tag: tag, Value: data[i : i+n]}, data[i+n:], nil
}
