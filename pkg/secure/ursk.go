package secure

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// urskInfo is the HKDF info string for ranging session keys.
var urskInfo = []byte("UWB session key")

// ErrEmptySecret rejects URSK derivation without a shared secret.
var ErrEmptySecret = errors.New("secure: empty shared secret")

// DeriveUrsk derives the UWB ranging session key from the secure
// session's shared secret, bound to the session ID. length is the key
// size in bytes, 16 or 32 for UCI session keys.
func DeriveUrsk(sharedSecret []byte, sessionID uint32, length int) ([]byte, error) {
	if len(sharedSecret) == 0 {
		return nil, ErrEmptySecret
	}
	salt := make([]byte, 4)
	binary.BigEndian.PutUint32(salt, sessionID)

	key := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sharedSecret, salt, urskInfo), key); err != nil {
		return nil, err
	}
	return key, nil
}
