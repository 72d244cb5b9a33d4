package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

var errNoRefreshToken = errors.New("no refresh token available")

// CredentialUsecase owns the provider access token.
// Reads and refreshes are serialized so concurrent senders trigger one refresh.
type CredentialUsecase struct {
	oauth     repo.OAuthRepo
	store     repo.CredentialRepo
	bootstrap string // configured refresh token
	logger    *zap.Logger

	mu          sync.Mutex
	cached      *domain.StoredCredential
	lastRefresh string // survives Invalidate
	now         func() time.Time
}

// NewCredentialUsecase creates a new credential usecase
func NewCredentialUsecase(oauth repo.OAuthRepo, store repo.CredentialRepo, refreshToken string, logger *zap.Logger) *CredentialUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialUsecase{
		oauth:     oauth,
		store:     store,
		bootstrap: refreshToken,
		logger:    logger.Named("credential"),
		now:       time.Now,
	}
}

// GetValidToken returns an unexpired access token, refreshing when needed
func (uc *CredentialUsecase) GetValidToken(ctx context.Context) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	if uc.cached.Valid(now) {
		return uc.cached.AccessToken, nil
	}

	if uc.cached == nil {
		stored, err := uc.store.Load(ctx)
		switch {
		case err == nil:
			uc.cached = stored
			if stored.Valid(now) {
				return stored.AccessToken, nil
			}
		case errors.Is(err, domain.ErrNoCredential):
		default:
			uc.logger.Warn("failed to load stored credential", zap.Error(err))
		}
	}

	return uc.refreshLocked(ctx)
}

func (uc *CredentialUsecase) refreshLocked(ctx context.Context) (string, error) {
	refreshToken := uc.bootstrap
	switch {
	case uc.cached != nil && uc.cached.RefreshToken != "":
		refreshToken = uc.cached.RefreshToken
	case uc.lastRefresh != "":
		refreshToken = uc.lastRefresh
	}
	if refreshToken == "" {
		return "", &domain.CredentialError{Err: errNoRefreshToken}
	}

	pair, err := uc.oauth.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		uc.cached = nil
		if clearErr := uc.store.Clear(ctx); clearErr != nil {
			uc.logger.Warn("failed to clear stored credential", zap.Error(clearErr))
		}
		uc.logger.Error("token refresh failed", zap.Error(err))
		return "", &domain.CredentialError{Err: err}
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	if err := uc.storeLocked(ctx, pair); err != nil {
		// the new token is still usable for this process
		uc.logger.Warn("failed to persist refreshed credential", zap.Error(err))
	}
	uc.logger.Info("access token refreshed")
	return pair.AccessToken, nil
}

func (uc *CredentialUsecase) storeLocked(ctx context.Context, pair *domain.TokenPair) error {
	cred := &domain.StoredCredential{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Expiry:       uc.now().Add(domain.TokenLifetime),
	}
	uc.cached = cred
	uc.lastRefresh = cred.RefreshToken
	return uc.store.Save(ctx, cred)
}

// StorePair saves a pair obtained outside the refresh flow (authorization code)
func (uc *CredentialUsecase) StorePair(ctx context.Context, pair *domain.TokenPair) error {
	if pair == nil || pair.AccessToken == "" {
		return &domain.ValidationError{Message: "token pair has no access token"}
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if pair.RefreshToken == "" {
		pair.RefreshToken = uc.lastRefresh
	}
	if err := uc.storeLocked(ctx, pair); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Invalidate drops the rejected token so the next read refreshes.
// A token that was already replaced by another caller is ignored.
func (uc *CredentialUsecase) Invalidate(ctx context.Context, rejected string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.cached != nil && rejected != "" && uc.cached.AccessToken != rejected {
		return
	}
	if uc.cached != nil && uc.cached.RefreshToken != "" {
		uc.lastRefresh = uc.cached.RefreshToken
	}
	uc.cached = nil
	if err := uc.store.Clear(ctx); err != nil {
		uc.logger.Warn("failed to clear stored credential", zap.Error(err))
	}
}

// Expiry returns the cached token's expiry, zero when none is cached
func (uc *CredentialUsecase) Expiry() time.Time {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.cached == nil {
		return time.Time{}
	}
	return uc.cached.Expiry
}
