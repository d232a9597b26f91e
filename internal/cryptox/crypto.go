// Package cryptox implements the password-based cipher used for locked notes.
//
// A ciphertext is a standard base64 string wrapping the envelope
//
//	version(1) | salt(16) | nonce(12) | AES-256-GCM sealed data
//
// The key is derived from the password and the per-message salt with
// Argon2id. Every call to Encrypt draws a fresh salt and nonce, so the same
// plaintext and password never produce the same ciphertext twice.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/noteflow/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	envelopeVersion byte = 1

	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// Argon2id cost parameters.
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

// DeriveKey stretches password into a 256-bit AES key bound to salt.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, kdfTime, kdfMemory, kdfThreads, keySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

// Encrypt seals plaintext with a key derived from password and returns the
// encoded envelope. An empty password is rejected with common.ErrEmptyPassword.
func Encrypt(plaintext, password string) (string, error) {
	if password == "" {
		return "", common.ErrEmptyPassword
	}

	buf := append([]byte{envelopeVersion}, common.GenerateRandByteArray(saltSize+nonceSize)...)
	salt := buf[1 : 1+saltSize]
	nonce := buf[1+saltSize:]

	key := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	sealed := aead.Seal(buf, nonce, []byte(plaintext), []byte{envelopeVersion})
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt.
//
// Any failure (bad encoding, truncated data, unknown version, failed
// authentication, or a result that is empty or not valid UTF-8) is reported
// as common.ErrIncorrectPassword.
func Decrypt(ciphertext, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", common.ErrIncorrectPassword
	}
	if len(raw) < 1+saltSize+nonceSize+aes.BlockSize || raw[0] != envelopeVersion {
		return "", common.ErrIncorrectPassword
	}

	salt := raw[1 : 1+saltSize]
	nonce := raw[1+saltSize : 1+saltSize+nonceSize]
	sealed := raw[1+saltSize+nonceSize:]

	key := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", common.ErrIncorrectPassword
	}

	plaintext, err := aead.Open(nil, nonce, sealed, []byte{envelopeVersion})
	if err != nil {
		return "", common.ErrIncorrectPassword
	}
	if len(plaintext) == 0 || !utf8.Valid(plaintext) {
		return "", common.ErrIncorrectPassword
	}

	return string(plaintext), nil
}
