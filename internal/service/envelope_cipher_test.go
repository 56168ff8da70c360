package service

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeCipher_RoundTrip(t *testing.T) {
	aliceSK := nostr.GeneratePrivateKey()
	alicePK, err := nostr.GetPublicKey(aliceSK)
	require.NoError(t, err)

	bobSK := nostr.GeneratePrivateKey()
	bobPK, err := nostr.GetPublicKey(bobSK)
	require.NoError(t, err)

	alice := NewEnvelopeCipher(aliceSK)
	bob := NewEnvelopeCipher(bobSK)

	plaintext := []byte(`{"token":"cashuAeyJ0b2tlbiI6W119","amount":21}`)

	sealed, err := alice.Encrypt(bobPK, plaintext)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "cashuA")

	opened, err := bob.Decrypt(alicePK, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEnvelopeCipher_NonceUniqueness(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	c := NewEnvelopeCipher(nostr.GeneratePrivateKey())

	a, err := c.Encrypt(pk, []byte("same payload"))
	require.NoError(t, err)
	b, err := c.Encrypt(pk, []byte("same payload"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEnvelopeCipher_TamperDetected(t *testing.T) {
	aliceSK := nostr.GeneratePrivateKey()
	alicePK, _ := nostr.GetPublicKey(aliceSK)
	bobSK := nostr.GeneratePrivateKey()
	bobPK, _ := nostr.GetPublicKey(bobSK)

	alice := NewEnvelopeCipher(aliceSK)
	bob := NewEnvelopeCipher(bobSK)

	sealed, err := alice.Encrypt(bobPK, []byte("pay 21 sats"))
	require.NoError(t, err)

	// Flip one character of the base64 body.
	tampered := []byte(sealed)
	if tampered[10] == 'A' {
		tampered[10] = 'B'
	} else {
		tampered[10] = 'A'
	}

	_, err = bob.Decrypt(alicePK, string(tampered))
	assert.Error(t, err)
}

func TestEnvelopeCipher_WrongRecipientFails(t *testing.T) {
	aliceSK := nostr.GeneratePrivateKey()
	alicePK, _ := nostr.GetPublicKey(aliceSK)
	bobSK := nostr.GeneratePrivateKey()
	bobPK, _ := nostr.GetPublicKey(bobSK)
	eveSK := nostr.GeneratePrivateKey()

	alice := NewEnvelopeCipher(aliceSK)
	eve := NewEnvelopeCipher(eveSK)

	sealed, err := alice.Encrypt(bobPK, []byte("secret"))
	require.NoError(t, err)

	_, err = eve.Decrypt(alicePK, sealed)
	assert.Error(t, err)
}

func TestEnvelopeCipher_BadBase64(t *testing.T) {
	c := NewEnvelopeCipher(nostr.GeneratePrivateKey())
	pk, _ := nostr.GetPublicKey(nostr.GeneratePrivateKey())

	_, err := c.Decrypt(pk, "not-base64!!!")
	assert.Error(t, err)

	_, err = c.Decrypt(pk, "YWI=") // valid base64, too short for a nonce
	assert.Error(t, err)
}
