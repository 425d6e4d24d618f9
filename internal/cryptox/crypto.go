// Package cryptox holds the symmetric identity-token cipher and the password
// hashing used by the server.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
)

const keyLength = 32

// TokenCipher encrypts user identifiers into opaque "hex(iv):hex(ciphertext)"
// tokens with AES-256-CBC.
//
// The key is the first 32 characters of the base64-encoded SHA-256 digest of
// the secret, so tokens stay interchangeable with other deployments sharing the
// same secret.
type TokenCipher struct {
	key []byte
}

// NewTokenCipher derives the AES key from secret.
func NewTokenCipher(secret string) *TokenCipher {
	return &TokenCipher{key: DeriveKey(secret)}
}

// DeriveKey returns the 32-byte AES key derived from secret.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	return []byte(encoded[:keyLength])
}

// Encrypt encrypts plaintext under a fresh random IV. Two calls with the same
// input produce different tokens.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv, err := common.RandomBytes(aes.BlockSize)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Everything after the first ':' is the ciphertext.
// Every failure wraps common.ErrorDecryption.
func (c *TokenCipher) Decrypt(token string) (string, error) {
	ivHex, dataHex, ok := strings.Cut(token, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing separator", common.ErrorDecryption)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: iv: %v", common.ErrorDecryption, err)
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", common.ErrorDecryption, err)
	}

	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid iv length %d", common.ErrorDecryption, len(iv))
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext length %d", common.ErrorDecryption, len(data))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecryption, err)
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecryption, err)
	}
	return string(plain), nil
}

// Encrypt is a convenience wrapper around NewTokenCipher(secret).Encrypt.
func Encrypt(plaintext, secret string) (string, error) {
	return NewTokenCipher(secret).Encrypt(plaintext)
}

// Decrypt is a convenience wrapper around NewTokenCipher(secret).Decrypt.
func Decrypt(token, secret string) (string, error) {
	return NewTokenCipher(secret).Decrypt(token)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, fmt.Errorf("bad padded length %d", len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("bad padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("bad padding")
		}
	}
	return b[:len(b)-n], nil
}
