package secure

import (
	"encoding/hex"
	"fmt"

	"go.dedis.ch/kyber/v4/util/random"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize and NonceSize are the lengths of the per-match pairing secrets.
const (
	KeySize   = chacha20poly1305.KeySize
	NonceSize = chacha20poly1305.NonceSize
)

// GenerateSecrets draws a fresh symmetric key and nonce for one match.
func GenerateSecrets() (key, nonce []byte) {
	key = make([]byte, KeySize)
	nonce = make([]byte, NonceSize)
	rng := random.New()
	rng.XORKeyStream(key, key)
	rng.XORKeyStream(nonce, nonce)
	return key, nonce
}

// MaskHex XORs b with the host's address mask and hex-encodes the result,
// the form in which pairing secrets ride on the advertised service record.
func MaskHex(b []byte, mask byte) string {
	return hex.EncodeToString(xorMask(b, mask))
}

// UnmaskHex is the inverse of MaskHex.
func UnmaskHex(s string, mask byte) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("secure: malformed pairing attribute: %w", err)
	}
	return xorMask(raw, mask), nil
}
