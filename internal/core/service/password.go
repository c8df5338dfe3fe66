package service

import (
	"crypto/hmac"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// PasswordHasher produces deterministic keyed password digests:
// hex(HMAC-SHA3-256(key, plaintext)). The same plaintext and key always
// yield the same digest, so comparison is recompute-and-match.
type PasswordHasher struct {
	key []byte
}

func NewPasswordHasher(key []byte) *PasswordHasher {
	return &PasswordHasher{key: key}
}

// Hash returns the hex digest of plain under the hasher's key.
func (h *PasswordHasher) Hash(plain string) string {
	mac := hmac.New(sha3.New256, h.key)
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}

// Compare reports whether plain hashes to digest, in constant time.
func (h *PasswordHasher) Compare(plain, digest string) bool {
	return hmac.Equal([]byte(h.Hash(plain)), []byte(digest))
}
