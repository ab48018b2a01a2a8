package boltdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/crypto"
	"github.com/iudanet/dashsync/internal/models"
)

// kdfCheckPlaintext шифруется ключом и хранится в metadata для проверки пароля
var kdfCheckPlaintext = []byte("dashsync-key-check-v1")

// IsEncrypted reports whether the database was initialized with a passphrase
func (s *Storage) IsEncrypted(ctx context.Context) (bool, error) {
	_, err := s.GetMetadata(ctx, keyKDFSalt)
	if err == storage.ErrMetadataNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Unlock derives the encryption key from passphrase and enables
// encryption of record and queue values.
//
// On first use the salt and a check value are stored in metadata.
// An existing plaintext database cannot be encrypted in place (ErrNotEncrypted).
func (s *Storage) Unlock(ctx context.Context, passphrase string) error {
	var (
		salt  []byte
		check []byte
	)

	err := s.view("read kdf params", func(tx *bbolt.Tx) error {
		var err error
		salt, err = getMetadataTx(tx, keyKDFSalt)
		if err != nil && err != storage.ErrMetadataNotFound {
			return err
		}
		check, err = getMetadataTx(tx, keyKDFCheck)
		if err != nil && err != storage.ErrMetadataNotFound {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if salt == nil {
		return s.initEncryption(passphrase)
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	c, err := crypto.NewCipher(key)
	if err != nil {
		return err
	}

	plain, err := c.Open(check)
	if errors.Is(err, crypto.ErrDecrypt) || (err == nil && !bytes.Equal(plain, kdfCheckPlaintext)) {
		return storage.ErrWrongPassphrase
	}
	if err != nil {
		return fmt.Errorf("failed to verify passphrase: %w", err)
	}

	s.cipher = c
	return nil
}

func (s *Storage) initEncryption(passphrase string) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	c, err := crypto.NewCipher(key)
	if err != nil {
		return err
	}
	check, err := c.Seal(kdfCheckPlaintext)
	if err != nil {
		return err
	}

	err = s.update("init encryption", func(tx *bbolt.Tx) error {
		// Шифрование включается только на пустой базе
		empty, err := isEmptyTx(tx)
		if err != nil {
			return err
		}
		if !empty {
			return storage.ErrNotEncrypted
		}
		if err := putMetadataTx(tx, keyKDFSalt, salt); err != nil {
			return err
		}
		return putMetadataTx(tx, keyKDFCheck, check)
	})
	if err != nil {
		return err
	}

	s.cipher = c
	return nil
}

func isEmptyTx(tx *bbolt.Tx) (bool, error) {
	names := [][]byte{bucketQueue}
	for _, c := range models.Collections() {
		names = append(names, recordsBucket(c))
	}

	for _, name := range names {
		b, err := bucket(tx, name)
		if err != nil {
			return false, err
		}
		if k, _ := b.Cursor().First(); k != nil {
			return false, nil
		}
	}
	return true, nil
}
