package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// cryptoKey derives the 32-byte AES key from CRYPTO_SECRET. Identifier
// encryption on the wire (subject ids in delete URLs, the /utils endpoints)
// all goes through this key.
func cryptoKey() []byte {
	secret := os.Getenv("CRYPTO_SECRET")
	if secret == "" {
		secret = "workmood-dev-secret"
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Encrypt seals a plaintext with AES-GCM and returns a hex string with the
// nonce prepended
func Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(cryptoKey())
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return fmt.Sprintf("%x", ciphertext), nil
}

// Decrypt reverses Encrypt
func Decrypt(cipherHex string) (string, error) {
	var ciphertext []byte
	if _, err := fmt.Sscanf(cipherHex, "%x", &ciphertext); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(cryptoKey())
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed (wrong key or tampered data)")
	}

	return string(plaintext), nil
}
