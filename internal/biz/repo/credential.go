package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// CredentialRepo persists the provider token pair.
// Load returns domain.ErrNoCredential when nothing usable is stored.
type CredentialRepo interface {
	Load(ctx context.Context) (*domain.StoredCredential, error)
	Save(ctx context.Context, cred *domain.StoredCredential) error
	Clear(ctx context.Context) error
}
