// Package vault handles health-record files at rest: upload validation,
// metadata extraction and Fernet (AES-CBC + HMAC) encryption. Only the
// encrypted artifact ever persists on disk.
package vault

import (
	"errors"
	"fmt"
	"os"

	"github.com/fernet/fernet-go"
)

// EncryptedSuffix marks ciphertext files on disk.
const EncryptedSuffix = ".encrypted"

// ErrIntegrity is returned when a ciphertext fails authentication:
// wrong key, truncation or tampering. Callers must treat it as fatal
// for the operation; corrupted plaintext is never returned.
var ErrIntegrity = errors.New("file integrity verification failed")

// Vault encrypts and decrypts record files with an injected key, so
// tests and deployments can hold independent keys.
type Vault struct {
	key         *fernet.Key
	maxFileSize int64
}

// New builds a Vault from a base64-encoded 32-byte Fernet key.
func New(encodedKey string, maxFileSize int64) (*Vault, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	return &Vault{key: key, maxFileSize: maxFileSize}, nil
}

// GenerateKey returns a fresh base64-encoded Fernet key. Used by tests
// and key provisioning, never implicitly at startup.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", err
	}
	return key.Encode(), nil
}

// MaxFileSize returns the configured upload ceiling in bytes.
func (v *Vault) MaxFileSize() int64 {
	return v.maxFileSize
}

// EncryptFile encrypts path into path+".encrypted" and removes the
// plaintext once the ciphertext is durably written. Returns the
// ciphertext path.
func (v *Vault) EncryptFile(path string) (string, error) {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read plaintext: %w", err)
	}

	token, err := fernet.EncryptAndSign(plaintext, v.key)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	encryptedPath := path + EncryptedSuffix
	out, err := os.OpenFile(encryptedPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("create ciphertext file: %w", err)
	}
	if _, err := out.Write(token); err != nil {
		out.Close()
		os.Remove(encryptedPath)
		return "", fmt.Errorf("write ciphertext: %w", err)
	}
	// Plaintext is only removed after the ciphertext is on stable
	// storage.
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(encryptedPath)
		return "", fmt.Errorf("sync ciphertext: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(encryptedPath)
		return "", fmt.Errorf("close ciphertext file: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove plaintext: %w", err)
	}
	return encryptedPath, nil
}

// DecryptFile verifies and decrypts encryptedPath into outputPath.
// Fails with ErrIntegrity when the HMAC does not verify.
func (v *Vault) DecryptFile(encryptedPath, outputPath string) error {
	token, err := os.ReadFile(encryptedPath)
	if err != nil {
		return fmt.Errorf("read ciphertext: %w", err)
	}

	plaintext := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{v.key})
	if plaintext == nil {
		return ErrIntegrity
	}

	if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("write plaintext: %w", err)
	}
	return nil
}
