package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
	// KeySize - размер ключа AES-256
	KeySize = 32
)

// ErrDecrypt возвращается, если данные повреждены или ключ неверный
var ErrDecrypt = errors.New("authentication failed or corrupted data")

// Cipher шифрует значения локального хранилища с помощью AES-256-GCM.
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher создает Cipher для 32-байтового ключа
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Seal шифрует plaintext. Пустой plaintext недопустим.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext cannot be empty")
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM дописывает ciphertext и auth tag после nonce
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open расшифровывает данные, зашифрованные Seal
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+c.aead.Overhead() {
		return nil, fmt.Errorf("encrypted data too short")
	}

	plaintext, err := c.aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", ErrDecrypt)
	}

	return plaintext, nil
}
