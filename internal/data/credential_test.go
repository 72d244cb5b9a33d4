package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

func TestCredentialFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure_tokens.enc")
	f, err := NewCredentialRepo(path, "passphrase", nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	cred := &domain.StoredCredential{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.Save(ctx, cred))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access", "file is encrypted")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, got.AccessToken)
	assert.Equal(t, cred.RefreshToken, got.RefreshToken)
	assert.True(t, cred.Expiry.Equal(got.Expiry))

	require.NoError(t, f.Clear(ctx))
	require.NoError(t, f.Clear(ctx), "clearing twice is fine")
	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredential)
}

func TestCredentialFile_WrongKeyRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure_tokens.enc")
	ctx := context.Background()

	writer, err := NewCredentialRepo(path, "key-a", nil)
	require.NoError(t, err)
	require.NoError(t, writer.Save(ctx, &domain.StoredCredential{AccessToken: "a"}))

	reader, err := NewCredentialRepo(path, "key-b", nil)
	require.NoError(t, err)
	_, err = reader.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCredentialFile_RotateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure_tokens.enc")
	ctx := context.Background()

	f, err := NewCredentialRepo(path, "old-key", nil)
	require.NoError(t, err)
	require.NoError(t, f.Save(ctx, &domain.StoredCredential{AccessToken: "a", RefreshToken: "r"}))

	require.NoError(t, f.RotateKey(ctx, "new-key"))

	withNew, err := NewCredentialRepo(path, "new-key", nil)
	require.NoError(t, err)
	got, err := withNew.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)

	assert.Error(t, f.RotateKey(ctx, ""))
}

func TestNewCredentialRepo_EmptyKey(t *testing.T) {
	_, err := NewCredentialRepo(filepath.Join(t.TempDir(), "x"), "", nil)
	assert.Error(t, err)
}
