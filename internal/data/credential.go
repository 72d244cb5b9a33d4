package data

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

const credentialKeyInfo = "zalo-inventory-bot token file v1"

// CredentialFile stores the token pair encrypted with XChaCha20-Poly1305.
// The file is nonce || ciphertext and is replaced atomically.
type CredentialFile struct {
	mu     sync.Mutex
	path   string
	aead   cipher.AEAD
	logger *zap.Logger
}

// NewCredentialRepo creates an encrypted credential file store
func NewCredentialRepo(path, passphrase string, logger *zap.Logger) (*CredentialFile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	aead, err := newCredentialCipher(passphrase)
	if err != nil {
		return nil, err
	}
	return &CredentialFile{path: path, aead: aead, logger: logger.Named("credential_file")}, nil
}

func newCredentialCipher(passphrase string) (cipher.AEAD, error) {
	if passphrase == "" {
		return nil, errors.New("encryption key is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), nil, []byte(credentialKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return aead, nil
}

// Load returns domain.ErrNoCredential when the file is missing or unreadable
func (f *CredentialFile) Load(ctx context.Context) (*domain.StoredCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked()
}

func (f *CredentialFile) loadLocked() (*domain.StoredCredential, error) {
	blob, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	plain, err := f.open(blob)
	if err != nil {
		f.logger.Warn("credential file unreadable, removing", zap.String("path", f.path), zap.Error(err))
		_ = os.Remove(f.path)
		return nil, domain.ErrNoCredential
	}

	var cred domain.StoredCredential
	if err := json.Unmarshal(plain, &cred); err != nil {
		f.logger.Warn("credential file corrupt, removing", zap.String("path", f.path), zap.Error(err))
		_ = os.Remove(f.path)
		return nil, domain.ErrNoCredential
	}
	return &cred, nil
}

// Save encrypts and atomically replaces the file
func (f *CredentialFile) Save(ctx context.Context, cred *domain.StoredCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(cred)
}

func (f *CredentialFile) saveLocked(cred *domain.StoredCredential) error {
	plain, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	blob, err := f.seal(plain)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Clear removes the file
func (f *CredentialFile) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// RotateKey re-encrypts the stored credential under a new passphrase.
// With nothing stored only the key changes.
func (f *CredentialFile) RotateKey(ctx context.Context, newPassphrase string) error {
	aead, err := newCredentialCipher(newPassphrase)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cred, err := f.loadLocked()
	if err != nil && !errors.Is(err, domain.ErrNoCredential) {
		return err
	}

	f.aead = aead
	if cred == nil {
		return nil
	}
	if err := f.saveLocked(cred); err != nil {
		return fmt.Errorf("failed to re-encrypt credential: %w", err)
	}
	f.logger.Info("credential file re-encrypted")
	return nil
}

func (f *CredentialFile) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, f.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return f.aead.Seal(nonce, nonce, plain, nil), nil
}

func (f *CredentialFile) open(blob []byte) ([]byte, error) {
	ns := f.aead.NonceSize()
	if len(blob) < ns {
		return nil, errors.New("ciphertext too short")
	}
	return f.aead.Open(nil, blob[:ns], blob[ns:], nil)
}
