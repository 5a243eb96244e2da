package tlv

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

func TestDecoderBufferParse(t *testing.T) {
	d := NewDecoderBuffer(mustHex(t,
		"0a0402000100"+
			"a01001000200000000000000000000000000"+
			"a1080200010002000100"+
			"090402000100"+
			"140101"), 5)
	if err := d.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if v, err := d.Uint32(0x0A); err != nil || v != 0x00010002 {
		t.Errorf("Uint32(0x0A) = %#x, %v; want 0x10002", v, err)
	}
	if v, err := d.Uint64(0xA1); err != nil || v != 0x0001000200010002 {
		t.Errorf("Uint64(0xA1) = %#x, %v", v, err)
	}
	if v, err := d.Uint8(0x14); err != nil || v != 1 {
		t.Errorf("Uint8(0x14) = %d, %v; want 1", v, err)
	}
	v, err := d.Bytes(0xA0)
	if err != nil || len(v) != 16 {
		t.Fatalf("Bytes(0xA0) = %X, %v", v, err)
	}
	if !bytes.Equal(v[:4], []byte{0x01, 0x00, 0x02, 0x00}) {
		t.Errorf("Bytes(0xA0)[:4] = %X", v[:4])
	}
}

func TestDecoderBufferErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		numParams int
		wantErr   error
	}{
		{"truncated header", "01", 1, ErrTruncated},
		{"truncated value", "0104AABB", 1, ErrTruncated},
		{"count too high", "010101", 2, ErrParamCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoderBuffer(mustHex(t, tt.data), tt.numParams)
			if err := d.Parse(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecoderBufferIgnoresTrailingRecords(t *testing.T) {
	d := NewDecoderBuffer(mustHex(t, "01010102010A"), 1)
	if err := d.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, err := d.Uint8(0x01); err != nil || v != 1 {
		t.Errorf("Uint8(0x01) = %d, %v; want 1", v, err)
	}
	if d.Has(0x02) {
		t.Error("record beyond the expected count was parsed")
	}
}

func TestDecoderBufferTagNotFoundVsWrongLength(t *testing.T) {
	d := NewDecoderBuffer(mustHex(t, "010101"), 1)
	if err := d.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := d.Uint8(0x02); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("Uint8(absent) error = %v, want ErrTagNotFound", err)
	}
	if _, err := d.Uint16(0x01); !errors.Is(err, ErrWrongLength) {
		t.Errorf("Uint16(1-byte value) error = %v, want ErrWrongLength", err)
	}
}

func TestDecoderBufferNotParsed(t *testing.T) {
	d := NewDecoderBuffer(mustHex(t, "010101"), 1)
	if _, err := d.Uint8(0x01); !errors.Is(err, ErrNotParsed) {
		t.Errorf("Uint8 before Parse = %v, want ErrNotParsed", err)
	}
}

func TestDecoderBufferDuplicateTagLastWins(t *testing.T) {
	d := NewDecoderBuffer(mustHex(t, "010105010107"), 2)
	if err := d.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := d.Uint8(0x01); v != 7 {
		t.Errorf("Uint8(0x01) = %d, want 7", v)
	}
}
