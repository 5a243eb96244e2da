package tlv

import (
	"encoding/binary"
	"fmt"
)

// DecoderBuffer parses a TLV blob with a known parameter count and
// provides typed access to records by tag. Duplicate tags keep the
// last occurrence.
type DecoderBuffer struct {
	data     []byte
	expected int
	params   map[uint8][]byte
}

// NewDecoderBuffer wraps raw TLV data expected to hold numParams records.
// The data is not copied; callers must not mutate it while decoding.
func NewDecoderBuffer(data []byte, numParams int) *DecoderBuffer {
	return &DecoderBuffer{data: data, expected: numParams}
}

// Parse walks the records until the expected parameter count is
// reached, ignoring any trailing bytes. It fails on a truncated record
// or when the data holds fewer records than expected.
func (d *DecoderBuffer) Parse() error {
	params := make(map[uint8][]byte, d.expected)
	count := 0
	for off := 0; off < len(d.data) && count < d.expected; {
		if len(d.data)-off < 2 {
			return fmt.Errorf("%w: header at offset %d", ErrTruncated, off)
		}
		tag := d.data[off]
		length := int(d.data[off+1])
		off += 2
		if len(d.data)-off < length {
			return fmt.Errorf("%w: tag 0x%02X wants %d bytes, %d left",
				ErrTruncated, tag, length, len(d.data)-off)
		}
		params[tag] = d.data[off : off+length]
		off += length
		count++
	}
	if count != d.expected {
		return fmt.Errorf("%w: got %d, expected %d", ErrParamCountMismatch, count, d.expected)
	}
	d.params = params
	return nil
}

func (d *DecoderBuffer) value(tag uint8) ([]byte, error) {
	if d.params == nil {
		return nil, ErrNotParsed
	}
	v, ok := d.params[tag]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02X", ErrTagNotFound, tag)
	}
	return v, nil
}

func (d *DecoderBuffer) scalar(tag uint8, width int) ([]byte, error) {
	v, err := d.value(tag)
	if err != nil {
		return nil, err
	}
	if len(v) != width {
		return nil, fmt.Errorf("%w: tag 0x%02X has %d bytes, want %d",
			ErrWrongLength, tag, len(v), width)
	}
	return v, nil
}

// Uint8 returns a one-byte scalar record.
func (d *DecoderBuffer) Uint8(tag uint8) (uint8, error) {
	v, err := d.scalar(tag, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Uint16 returns a two-byte little-endian scalar record.
func (d *DecoderBuffer) Uint16(tag uint8) (uint16, error) {
	v, err := d.scalar(tag, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v), nil
}

// Uint32 returns a four-byte little-endian scalar record.
func (d *DecoderBuffer) Uint32(tag uint8) (uint32, error) {
	v, err := d.scalar(tag, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v), nil
}

// Uint64 returns an eight-byte little-endian scalar record.
func (d *DecoderBuffer) Uint64(tag uint8) (uint64, error) {
	v, err := d.scalar(tag, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(v), nil
}

// Bytes returns the raw value of a record.
func (d *DecoderBuffer) Bytes(tag uint8) ([]byte, error) {
	return d.value(tag)
}

// Has reports whether a tag is present. It returns false before Parse.
func (d *DecoderBuffer) Has(tag uint8) bool {
	_, ok := d.params[tag]
	return ok
}
