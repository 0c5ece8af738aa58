// Package cipher seals messages with AEAD ciphers whose keys and nonces are
// drawn from a random stream, typically an hdrbg stream reader.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	siv "github.com/secure-io/siv-go"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrUnknownCipher is returned by ByName for unrecognised names.
	ErrUnknownCipher = errors.New("hdrbg/cipher: unknown cipher")
	// ErrShortMessage indicates a sealed message shorter than its nonce and
	// tag.
	ErrShortMessage = errors.New("hdrbg/cipher: sealed message too short")
)

// Cipher encapsulates the primitives required to seal and open payloads.
type Cipher interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, aad []byte) ([]byte, error)
	Open(dst, nonce, ciphertext, aad []byte) ([]byte, error)
}

// Factory constructs a Cipher instance from the provided key material.
type Factory func(key []byte) (Cipher, error)

type aeadCipher struct {
	aead cipher.AEAD
}

func (c *aeadCipher) NonceSize() int { return c.aead.NonceSize() }

func (c *aeadCipher) Overhead() int { return c.aead.Overhead() }

func (c *aeadCipher) Seal(dst, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("cipher: invalid nonce length %d", len(nonce))
	}
	return c.aead.Seal(dst, nonce, plaintext, aad), nil
}

func (c *aeadCipher) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("cipher: invalid nonce length %d", len(nonce))
	}
	return c.aead.Open(dst, nonce, ciphertext, aad)
}

// AESGCM returns a factory that produces AES-GCM ciphers.
func AESGCM() Factory {
	return func(key []byte) (Cipher, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{aead: aead}, nil
	}
}

// ChaCha20Poly1305 returns a factory that produces ChaCha20-Poly1305 ciphers.
func ChaCha20Poly1305() Factory {
	return func(key []byte) (Cipher, error) {
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{aead: aead}, nil
	}
}

// XChaCha20Poly1305 returns a factory for XChaCha20-Poly1305. Its 24-byte
// nonce is large enough to draw at random for every message.
func XChaCha20Poly1305() Factory {
	return func(key []byte) (Cipher, error) {
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{aead: aead}, nil
	}
}

// AESGCMSIV returns a factory for AES-GCM-SIV (misuse-resistant AEAD).
func AESGCMSIV() Factory {
	return func(key []byte) (Cipher, error) {
		aead, err := siv.NewGCM(key)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{aead: aead}, nil
	}
}

// Names lists the ciphers known to ByName.
func Names() []string {
	return []string{"aes-gcm", "chacha20-poly1305", "xchacha20-poly1305", "aes-gcm-siv"}
}

// ByName returns the factory registered under name.
func ByName(name string) (Factory, error) {
	switch name {
	case "aes-gcm":
		return AESGCM(), nil
	case "chacha20-poly1305":
		return ChaCha20Poly1305(), nil
	case "xchacha20-poly1305":
		return XChaCha20Poly1305(), nil
	case "aes-gcm-siv":
		return AESGCMSIV(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
}

// GenerateKey reads an n-byte key from r.
func GenerateKey(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cipher: key length must be > 0")
	}
	key := make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		clear(key)
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Sealer seals messages under one key with a fresh nonce read from a random
// stream for every message. Sealed messages are nonce || ciphertext.
type Sealer struct {
	cipher Cipher
	nonces io.Reader
}

// NewSealer constructs the cipher from key and reads nonces from nonces.
func NewSealer(factory Factory, key []byte, nonces io.Reader) (*Sealer, error) {
	c, err := factory(key)
	if err != nil {
		return nil, fmt.Errorf("new sealer: %w", err)
	}
	return &Sealer{cipher: c, nonces: nonces}, nil
}

// Overhead is the number of bytes Seal adds to a plaintext.
func (s *Sealer) Overhead() int {
	return s.cipher.NonceSize() + s.cipher.Overhead()
}

// Seal encrypts and authenticates plaintext and aad.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	ns := s.cipher.NonceSize()
	out := make([]byte, ns, ns+len(plaintext)+s.cipher.Overhead())
	if _, err := io.ReadFull(s.nonces, out); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return s.cipher.Seal(out, out[:ns], plaintext, aad)
}

// Open authenticates and decrypts a message produced by Seal.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	ns := s.cipher.NonceSize()
	if len(sealed) < ns+s.cipher.Overhead() {
		return nil, ErrShortMessage
	}
	return s.cipher.Open(nil, sealed[:ns], sealed[ns:], aad)
}
