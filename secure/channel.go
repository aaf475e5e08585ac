// Package secure wraps codec payloads in an authenticated-encryption envelope
// for one match session, plus the address-keyed masking used both on gameplay
// datagrams and on the pairing attributes advertised over discovery.
package secure

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"net"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrAuthenticationFailed is returned by Open when the AEAD tag does not
// verify. Such packets are dropped and never surface as game data.
var ErrAuthenticationFailed = errors.New("secure: authentication failed")

// Channel seals outgoing and opens incoming datagram payloads. The XOR mask
// is not a cryptographic primitive; it only keeps two colliding LAN games
// from producing identical ciphertexts if a key were ever reused.
type Channel struct {
	aead      cipher.AEAD
	nonce     []byte
	localMask byte
	plaintext bool
}

type option func(Channel) Channel

// WithPlaintext disables the AEAD and masking entirely; the wire payload is
// the raw codec bytes. Meant for environments where the cipher is unavailable.
func WithPlaintext() option {
	return func(c Channel) Channel {
		c.plaintext = true
		return c
	}
}

// NewChannel builds a channel from the session's symmetric key and fixed
// nonce. localAddr is this peer's own IPv4 address, used to mask outgoing
// payloads; incoming payloads are unmasked with the sender's address passed
// to Open.
func NewChannel(key, nonce []byte, localAddr net.IP, opts ...option) (*Channel, error) {
	c := Channel{localMask: AddrMask(localAddr)}
	for _, opt := range opts {
		c = opt(c)
	}
	if c.plaintext {
		return &c, nil
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("secure: nonce must be %d bytes, got %d", chacha20poly1305.NonceSize, len(nonce))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("secure: %w", err)
	}
	c.aead = aead
	c.nonce = append([]byte(nil), nonce...)
	return &c, nil
}

// Seal masks plain with the local address byte and encrypts it.
func (c *Channel) Seal(plain []byte) []byte {
	if c.plaintext {
		return plain
	}
	return c.aead.Seal(nil, c.nonce, xorMask(plain, c.localMask), nil)
}

// Open decrypts payload, failing closed on any tag mismatch, then removes
// the mask keyed by the sender's address. The peer's address must be used
// here, not the local one.
func (c *Channel) Open(payload []byte, peer net.IP) ([]byte, error) {
	if c.plaintext {
		return payload, nil
	}
	masked, err := c.aead.Open(nil, c.nonce, payload, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return xorMask(masked, c.peerMaskFor(peer)), nil
}

func (c *Channel) peerMaskFor(peer net.IP) byte {
	return AddrMask(peer)
}

// AddrMask returns the low byte of an IPv4 address, the constant repeated
// across the buffer by the masking step. Non-IPv4 addresses mask to zero.
func AddrMask(ip net.IP) byte {
	v4 := ip.To4()
	if v4 == nil {
		return 0
	}
	return v4[3]
}

func xorMask(b []byte, mask byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = v ^ mask
	}
	return out
}
