package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/nbd-wtf/go-nostr/nip04"
)

// EnvelopeCipher authenticates and encrypts forward envelopes between two
// terminal identities. The key is the Diffie-Hellman shared secret of
// (local private key, peer public key); relays never see plaintext and
// cannot tamper undetected.
type EnvelopeCipher struct {
	sk string
}

// NewEnvelopeCipher creates a cipher bound to the local private key.
func NewEnvelopeCipher(sk string) *EnvelopeCipher {
	return &EnvelopeCipher{sk: sk}
}

func (c *EnvelopeCipher) aead(peerPub string) (cipher.AEAD, error) {
	shared, err := nip04.ComputeSharedSecret(peerPub, c.sk)
	if err != nil {
		return nil, fmt.Errorf("computing shared secret: %w", err)
	}
	block, err := aes.NewCipher(shared)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}

// Encrypt seals plaintext for recipientPub.
// Returns base64(nonce + ciphertext).
func (c *EnvelopeCipher) Encrypt(recipientPub string, plaintext []byte) (string, error) {
	aead, err := c.aead(recipientPub)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a payload sealed by senderPub for the local identity.
func (c *EnvelopeCipher) Decrypt(senderPub string, payload string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	aead, err := c.aead(senderPub)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("payload too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("opening payload: %w", err)
	}
	return plaintext, nil
}
