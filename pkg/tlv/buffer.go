// Package tlv implements the tag-length-value parameter encoding used by
// UWB configuration commands and capability responses.
//
// Each record is tag (1 byte) | length (1 byte) | value. Multi-byte
// scalars are little-endian. Record order is preserved: configuration
// blobs are order-sensitive on the wire.
package tlv

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Buffer is an encoded sequence of TLV records.
type Buffer struct {
	data      []byte
	numParams int
}

// Bytes returns the encoded records.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// NumParams returns the number of records in the buffer.
func (b *Buffer) NumParams() int {
	return b.numParams
}

// Builder accumulates TLV records in insertion order.
// The zero value is ready to use. The first error sticks: subsequent
// puts are no-ops and Build returns it.
type Builder struct {
	buf       bytes.Buffer
	numParams int
	err       error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// PutUint8 appends a one-byte scalar record.
func (b *Builder) PutUint8(tag uint8, v uint8) *Builder {
	return b.PutBytes(tag, []byte{v})
}

// PutUint16 appends a two-byte little-endian scalar record.
func (b *Builder) PutUint16(tag uint8, v uint16) *Builder {
	var value [2]byte
	binary.LittleEndian.PutUint16(value[:], v)
	return b.PutBytes(tag, value[:])
}

// PutInt16 appends a two-byte two's complement little-endian record.
func (b *Builder) PutInt16(tag uint8, v int16) *Builder {
	return b.PutUint16(tag, uint16(v))
}

// PutUint32 appends a four-byte little-endian scalar record.
func (b *Builder) PutUint32(tag uint8, v uint32) *Builder {
	var value [4]byte
	binary.LittleEndian.PutUint32(value[:], v)
	return b.PutBytes(tag, value[:])
}

// PutInt32 appends a four-byte two's complement little-endian record.
func (b *Builder) PutInt32(tag uint8, v int32) *Builder {
	return b.PutUint32(tag, uint32(v))
}

// PutUint64 appends an eight-byte little-endian scalar record.
func (b *Builder) PutUint64(tag uint8, v uint64) *Builder {
	var value [8]byte
	binary.LittleEndian.PutUint64(value[:], v)
	return b.PutBytes(tag, value[:])
}

// PutBytes appends a record with an opaque value. The value is copied.
func (b *Builder) PutBytes(tag uint8, value []byte) *Builder {
	if b.err != nil {
		return b
	}
	if len(value) > 0xFF {
		b.err = fmt.Errorf("%w: tag 0x%02X has %d bytes", ErrValueTooLong, tag, len(value))
		return b
	}
	b.buf.WriteByte(tag)
	b.buf.WriteByte(byte(len(value)))
	b.buf.Write(value)
	b.numParams++
	return b
}

// NumParams returns the number of records added so far.
func (b *Builder) NumParams() int {
	return b.numParams
}

// Build finalizes the buffer. It fails if any put was rejected.
func (b *Builder) Build() (*Buffer, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Buffer{
		data:      bytes.Clone(b.buf.Bytes()),
		numParams: b.numParams,
	}, nil
}
