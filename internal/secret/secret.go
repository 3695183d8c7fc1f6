package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no value was stored under the requested name.
var ErrNotFound = errors.New("secret not found")

// Store keeps named secrets encrypted on disk with AES-256-GCM. The key is
// derived from an operator-supplied passphrase, never compiled in.
type Store struct {
	dir string
	key [32]byte
}

func NewStore(dir, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create secret directory: %w", err)
	}

	return &Store{
		dir: dir,
		key: sha256.Sum256([]byte(passphrase)),
	}, nil
}

// Save encrypts value and writes it under name, replacing any previous value.
func (s *Store) Save(name, value string) error {
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return fmt.Errorf("failed to initialize cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to initialize GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(value), nil)

	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}

	return nil
}

// Load decrypts the value stored under name.
func (s *Store) Load(name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	sealed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to initialize GCM: %w", err)
	}

	if len(sealed) < gcm.NonceSize() {
		return "", fmt.Errorf("stored secret is corrupt")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt secret: %w", err)
	}

	return string(plaintext), nil
}

func (s *Store) path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || clean != filepath.Base(clean) {
		return "", fmt.Errorf("invalid secret name: %q", name)
	}
	return filepath.Join(s.dir, clean+".enc"), nil
}
