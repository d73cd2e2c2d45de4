// Package secret seals small blobs (platform API tokens) before they are
// written to the database.
//
// XChaCha20-Poly1305 is an AEAD: Open fails if a single byte of the stored
// ciphertext was changed, and the 24-byte random nonce is large enough that
// picking it at random for every Seal is safe.
//
// The key is derived with HKDF-SHA256 from an operator-supplied secret, so
// any string works as CREDENTIAL_SECRET and the raw secret is never used
// directly as a cipher key.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// hkdfInfo binds derived keys to this use. Changing it invalidates every
// sealed credential.
const hkdfInfo = "bounty-tracker credential sealing v1"

var (
	ErrEmptySecret = errors.New("secret: empty secret")
	ErrMalformed   = errors.New("secret: ciphertext too short")
)

// Sealer encrypts and authenticates blobs with a key derived from a secret.
type Sealer struct {
	aead interface {
		NonceSize() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// NewSealer derives a key from secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("secret: deriving key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("secret: creating cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce || ciphertext. aad is authenticated but not stored;
// the same aad must be passed to Open. Callers pass the owning
// user and platform IDs so a sealed blob can't be moved to another row.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("secret: generating nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrMalformed
	}
	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], aad)
	if err != nil {
		return nil, fmt.Errorf("secret: opening sealed blob: %w", err)
	}
	return plaintext, nil
}
