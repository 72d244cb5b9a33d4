package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// OAuthRepo talks to the provider's OAuth endpoint
type OAuthRepo interface {
	// RefreshAccessToken exchanges a refresh token for a new pair
	RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// ExchangeCode exchanges an authorization code (PKCE) for a new pair
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*domain.TokenPair, error)
}

// MessengerRepo sends messages through the provider.
// A rejected access token is reported as domain.ErrUnauthorized.
type MessengerRepo interface {
	SendGroupText(ctx context.Context, accessToken, groupID, text string) error
}
