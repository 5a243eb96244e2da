package secure

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveUrsk(t *testing.T) {
	secret := []byte{0x10, 0x20, 0x30, 0x40}

	key16, err := DeriveUrsk(secret, 0x01020304, 16)
	if err != nil {
		t.Fatalf("derive 16: %v", err)
	}
	if len(key16) != 16 {
		t.Fatalf("len = %d, want 16", len(key16))
	}

	key32, err := DeriveUrsk(secret, 0x01020304, 32)
	if err != nil {
		t.Fatalf("derive 32: %v", err)
	}
	if len(key32) != 32 {
		t.Fatalf("len = %d, want 32", len(key32))
	}

	again, err := DeriveUrsk(secret, 0x01020304, 16)
	if err != nil {
		t.Fatalf("derive again: %v", err)
	}
	if !bytes.Equal(key16, again) {
		t.Fatal("derivation is not deterministic")
	}

	other, err := DeriveUrsk(secret, 0x01020305, 16)
	if err != nil {
		t.Fatalf("derive other session: %v", err)
	}
	if bytes.Equal(key16, other) {
		t.Fatal("different session IDs produced the same key")
	}

	otherSecret, err := DeriveUrsk([]byte{0x11, 0x20, 0x30, 0x40}, 0x01020304, 16)
	if err != nil {
		t.Fatalf("derive other secret: %v", err)
	}
	if bytes.Equal(key16, otherSecret) {
		t.Fatal("different secrets produced the same key")
	}
}

func TestDeriveUrskEmptySecret(t *testing.T) {
	if _, err := DeriveUrsk(nil, 1, 16); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("err = %v, want ErrEmptySecret", err)
	}
}
