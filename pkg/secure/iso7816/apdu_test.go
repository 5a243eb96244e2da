package iso7816

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
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

func TestCommandApduEncode(t *testing.T) {
	cases := []struct {
		name string
		apdu CommandApdu
		want string
	}{
		{
			name: "header only",
			apdu: NewCommandApdu(0x00, 0xA4, 0x04, 0x00, nil, LeAbsent),
			want: "00a40400",
		},
		{
			name: "with data",
			apdu: NewCommandApdu(0x80, 0xC2, 0x00, 0x00, []byte{0x01, 0x02, 0x03}, LeAbsent),
			want: "80c2000003010203",
		},
		{
			name: "with data and le",
			apdu: NewCommandApdu(0x80, 0x12, 0x00, 0x01, []byte{0xAA}, 16),
			want: "8012000101aa10",
		},
		{
			name: "le 256 wraps to zero",
			apdu: NewCommandApdu(0x80, 0xCB, 0x3F, 0xFF, []byte{0x4D, 0x00}, 256),
			want: "80cb3fff024d0000",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.apdu.Encode()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if want := mustHex(t, c.want); !bytes.Equal(got, want) {
				t.Fatalf("encode = %x, want %s", got, c.want)
			}
		})
	}
}

func TestCommandApduEncodeErrors(t *testing.T) {
	long := CommandApdu{Data: make([]byte, 256)}
	if _, err := long.Encode(); !errors.Is(err, ErrDataTooLong) {
		t.Fatalf("err = %v, want ErrDataTooLong", err)
	}
	badLe := CommandApdu{Le: 257}
	if _, err := badLe.Encode(); !errors.Is(err, ErrInvalidLe) {
		t.Fatalf("err = %v, want ErrInvalidLe", err)
	}
}

func TestParseResponseApdu(t *testing.T) {
	resp, err := ParseResponseApdu(mustHex(t, "0102039000"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(resp.Data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("data = %x", resp.Data)
	}
	if resp.SW != SwNoError || !resp.IsSuccess() {
		t.Fatalf("sw = %s", resp.SW)
	}

	resp, err = ParseResponseApdu(mustHex(t, "6985"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(resp.Data) != 0 || resp.SW != SwConditionsNotSatisfied {
		t.Fatalf("resp = %+v", resp)
	}

	if _, err := ParseResponseApdu([]byte{0x90}); !errors.Is(err, ErrResponseTooShort) {
		t.Fatalf("err = %v, want ErrResponseTooShort", err)
	}
}

func TestResponseApduEncode(t *testing.T) {
	resp := ResponseApdu{Data: []byte{0xAB}, SW: SwNoError}
	if got := resp.Encode(); !bytes.Equal(got, mustHex(t, "ab9000")) {
		t.Fatalf("encode = %x", got)
	}
	if got := ResponseApduFromStatus(SwConditionsNotSatisfied).Encode(); !bytes.Equal(got, mustHex(t, "6985")) {
		t.Fatalf("encode = %x", got)
	}
}

func TestStatusWordString(t *testing.T) {
	if got := SwNoError.String(); got != "SW 9000 (no error)" {
		t.Fatalf("String() = %q", got)
	}
	if got := StatusWord(0x1234).String(); got != "SW 1234" {
		t.Fatalf("String() = %q", got)
	}
}
