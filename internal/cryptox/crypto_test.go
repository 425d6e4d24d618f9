package cryptox

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey("secret")
	k2 := DeriveKey("secret")

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, DeriveKey("other"))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		secret    string
	}{
		{name: "uuid", plaintext: "6f1c2a3e-8b7d-4a59-9b3c-1e2f3a4b5c6d", secret: "s3cr3t"},
		{name: "empty", plaintext: "", secret: "k"},
		{name: "exact block", plaintext: "0123456789abcdef", secret: "k"},
		{name: "colons", plaintext: "a:b:c", secret: "key with spaces"},
		{name: "printable ascii", plaintext: " !\"#$%&'()*+,-./0123456789:;<=>?@AZ[\\]^_`az{|}~", secret: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encrypt(tt.plaintext, tt.secret)
			require.NoError(t, err)

			got, err := Decrypt(token, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncrypt_TokenFormat(t *testing.T) {
	c := NewTokenCipher("secret")

	token, err := c.Encrypt("user-1")
	require.NoError(t, err)

	ivHex, dataHex, ok := strings.Cut(token, ":")
	require.True(t, ok)

	iv, err := hex.DecodeString(ivHex)
	require.NoError(t, err)
	assert.Len(t, iv, 16)

	data, err := hex.DecodeString(dataHex)
	require.NoError(t, err)
	assert.Equal(t, 0, len(data)%16)
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	c := NewTokenCipher("secret")

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	pa, err := c.Decrypt(a)
	require.NoError(t, err)
	pb, err := c.Decrypt(b)
	require.NoError(t, err)
	assert.Equal(t, "same", pa)
	assert.Equal(t, "same", pb)
}

func TestDecrypt_Errors(t *testing.T) {
	c := NewTokenCipher("secret")
	valid, err := c.Encrypt("user-1")
	require.NoError(t, err)
	ivHex, _, _ := strings.Cut(valid, ":")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: "abcdef"},
		{name: "bad iv hex", token: "zz:" + strings.Repeat("00", 16)},
		{name: "bad data hex", token: ivHex + ":xyz"},
		{name: "short iv", token: "0011:" + strings.Repeat("00", 16)},
		{name: "empty ciphertext", token: ivHex + ":"},
		{name: "partial block", token: ivHex + ":" + strings.Repeat("00", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrorDecryption), "got %v", err)
		})
	}
}

func TestDecrypt_WrongSecret(t *testing.T) {
	token, err := Encrypt("6f1c2a3e-8b7d-4a59-9b3c-1e2f3a4b5c6d", "right")
	require.NoError(t, err)

	got, err := Decrypt(token, "wrong")
	if err == nil {
		assert.NotEqual(t, "6f1c2a3e-8b7d-4a59-9b3c-1e2f3a4b5c6d", got)
		return
	}
	assert.ErrorIs(t, err, common.ErrorDecryption)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	const original = "6f1c2a3e-8b7d-4a59-9b3c-1e2f3a4b5c6d"
	c := NewTokenCipher("secret")

	token, err := c.Encrypt(original)
	require.NoError(t, err)
	sep := strings.Index(token, ":")

	for i := sep + 1; i < len(token); i++ {
		b := []byte(token)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}

		got, err := c.Decrypt(string(b))
		if err != nil {
			assert.ErrorIs(t, err, common.ErrorDecryption)
			continue
		}
		assert.NotEqual(t, original, got, "tampered position %d returned the original plaintext", i)
	}
}
