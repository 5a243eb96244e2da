package secure

import (
	"bytes"
	"encoding/hex"
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

func TestCsmlCommandEncoding(t *testing.T) {
	oid := []byte{0x2A, 0x03}
	cases := []struct {
		name string
		cmd  interface {
			Encode() ([]byte, error)
		}
		want string
	}{
		{
			name: "select adf",
			cmd:  SelectAdfCommand(oid),
			want: "80a500000406022a03",
		},
		{
			name: "initiate transaction unicast",
			cmd:  InitiateTransactionUnicastCommand([][]byte{oid, {0x2B, 0x04}}),
			want: "801200000806022a0306022b04",
		},
		{
			name: "initiate transaction multicast",
			cmd:  InitiateTransactionMulticastCommand([][]byte{oid}, 0x01020304),
			want: "801201000a06022a03800401020304",
		},
		{
			name: "dispatch",
			cmd:  DispatchCommand([]byte{0x01, 0x02}),
			want: "80c2000006700481020102",
		},
		{
			name: "tunnel",
			cmd:  TunnelCommand([]byte{0x01, 0x02}),
			want: "8014000006700481020102",
		},
		{
			name: "terminate session get-do",
			cmd:  GetDoCommand(TerminateSessionGetDoTlv()),
			want: "80cb3fff074d05bf79028000",
		},
		{
			name: "session data get-do",
			cmd:  GetDoCommand(SessionDataGetDoTlv()),
			want: "80cb3fff054d03bf7800",
		},
		{
			name: "swap in adf",
			cmd:  SwapInAdfCommand([]byte{0xAA}, oid, []byte{0xBB, 0xCC}),
			want: "804000000ddf5101aa06022a03bf7002bbcc",
		},
		{
			name: "swap out adf",
			cmd:  SwapOutAdfCommand([]byte{0x51}),
			want: "8040010003800151",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.cmd.Encode()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if want := mustHex(t, c.want); !bytes.Equal(got, want) {
				t.Fatalf("encode = %x, want %s", got, c.want)
			}
		})
	}
}
