package cipher

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"

	"pkt.systems/hdrbg"
	"pkt.systems/hdrbg/stream"
)

func randomStream(t *testing.T) io.Reader {
	t.Helper()
	rng, err := hdrbg.New()
	if err != nil {
		t.Fatalf("hdrbg.New error: %v", err)
	}
	t.Cleanup(rng.Zero)
	return stream.NewReader(rng)
}

func TestFactoriesRoundTrip(t *testing.T) {
	r := randomStream(t)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			factory, err := ByName(name)
			if err != nil {
				t.Fatalf("ByName error: %v", err)
			}
			key, err := GenerateKey(r, 32)
			if err != nil {
				t.Fatalf("GenerateKey error: %v", err)
			}
			c, err := factory(key)
			if err != nil {
				t.Fatalf("factory error: %v", err)
			}
			nonce := make([]byte, c.NonceSize())
			if _, err := io.ReadFull(r, nonce); err != nil {
				t.Fatalf("read nonce error: %v", err)
			}
			plaintext := []byte("hello world")
			ciphertext, err := c.Seal(nil, nonce, plaintext, []byte("aad"))
			if err != nil {
				t.Fatalf("Seal error: %v", err)
			}
			if len(ciphertext) != len(plaintext)+c.Overhead() {
				t.Fatalf("ciphertext length %d, want %d", len(ciphertext), len(plaintext)+c.Overhead())
			}
			decrypted, err := c.Open(nil, nonce, ciphertext, []byte("aad"))
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("decrypted mismatch")
			}
			if _, err := c.Seal(nil, nonce[:1], plaintext, nil); err == nil {
				t.Fatalf("expected error for short nonce")
			}
		})
	}
}

func TestXChaCha20Poly1305NonceSize(t *testing.T) {
	c, err := XChaCha20Poly1305()(make([]byte, chacha20poly1305.KeySize))
	if err != nil {
		t.Fatalf("XChaCha20Poly1305 factory error: %v", err)
	}
	if c.NonceSize() != chacha20poly1305.NonceSizeX {
		t.Fatalf("expected nonce size %d, got %d", chacha20poly1305.NonceSizeX, c.NonceSize())
	}
}

func TestFactoryRejectsBadKey(t *testing.T) {
	for _, name := range Names() {
		factory, _ := ByName(name)
		if _, err := factory(make([]byte, 7)); err == nil {
			t.Fatalf("%s: expected error for 7-byte key", name)
		}
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("rot13"); !errors.Is(err, ErrUnknownCipher) {
		t.Fatalf("expected ErrUnknownCipher, got %v", err)
	}
}

func TestGenerateKeyShortStream(t *testing.T) {
	if _, err := GenerateKey(bytes.NewReader(make([]byte, 5)), 32); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if _, err := GenerateKey(bytes.NewReader(nil), 0); err == nil {
		t.Fatalf("expected error for zero length")
	}
}

func TestSealerRoundTrip(t *testing.T) {
	r := randomStream(t)
	key, err := GenerateKey(r, chacha20poly1305.KeySize)
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	s, err := NewSealer(XChaCha20Poly1305(), key, r)
	if err != nil {
		t.Fatalf("NewSealer error: %v", err)
	}
	msg := []byte("attack at dawn")
	a, err := s.Seal(msg, nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	b, err := s.Seal(msg, nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two seals of the same message are identical")
	}
	if len(a) != len(msg)+s.Overhead() {
		t.Fatalf("sealed length %d, want %d", len(a), len(msg)+s.Overhead())
	}
	for _, sealed := range [][]byte{a, b} {
		got, err := s.Open(sealed, nil)
		if err != nil {
			t.Fatalf("Open error: %v", err)
		}
		if !bytes.Equal(got, msg) {
			t.Fatalf("opened %q, want %q", got, msg)
		}
	}
	a[len(a)-1] ^= 1
	if _, err := s.Open(a, nil); err == nil {
		t.Fatalf("expected authentication failure")
	}
	if _, err := s.Open(a[:10], nil); !errors.Is(err, ErrShortMessage) {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}
}

func TestSealerNonceStreamError(t *testing.T) {
	s, err := NewSealer(AESGCM(), make([]byte, 16), bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("NewSealer error: %v", err)
	}
	if _, err := s.Seal([]byte("x"), nil); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if _, err := NewSealer(AESGCM(), make([]byte, 3), nil); err == nil {
		t.Fatalf("expected key size error")
	}
}
