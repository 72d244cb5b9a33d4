package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// authStateTTL bounds how long a consent page may stay open
const authStateTTL = 10 * time.Minute

// AuthorizationConfig describes the OA consent flow
type AuthorizationConfig struct {
	AppID       string
	CallbackURL string
	OAuthURL    string // e.g. https://oauth.zaloapp.com
}

type pendingAuth struct {
	verifier string
	created  time.Time
}

// AuthorizationUsecase bootstraps the token pair through the OA consent page (PKCE)
type AuthorizationUsecase struct {
	oauth  repo.OAuthRepo
	creds  *CredentialUsecase
	cfg    *oauth2.Config
	appID  string
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]pendingAuth
	now     func() time.Time
}

// NewAuthorizationUsecase creates a new authorization usecase
func NewAuthorizationUsecase(oauth repo.OAuthRepo, creds *CredentialUsecase, cfg AuthorizationConfig, logger *zap.Logger) *AuthorizationUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationUsecase{
		oauth: oauth,
		creds: creds,
		cfg: &oauth2.Config{
			ClientID:    cfg.AppID,
			RedirectURL: cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthURL + "/v4/oa/permission",
				TokenURL: cfg.OAuthURL + "/v4/oa/access_token",
			},
		},
		appID:   cfg.AppID,
		logger:  logger.Named("authorization"),
		pending: make(map[string]pendingAuth),
		now:     time.Now,
	}
}

// AuthorizeURL returns the consent page URL and the state it is bound to
func (uc *AuthorizationUsecase) AuthorizeURL() (string, string) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	uc.mu.Lock()
	uc.gcLocked()
	uc.pending[state] = pendingAuth{verifier: verifier, created: uc.now()}
	uc.mu.Unlock()

	url := uc.cfg.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("app_id", uc.appID),
	)
	return url, state
}

// Callback exchanges the authorization code and stores the new pair
func (uc *AuthorizationUsecase) Callback(ctx context.Context, code, state string) error {
	if code == "" {
		return &domain.ValidationError{Message: "missing code"}
	}

	uc.mu.Lock()
	p, ok := uc.pending[state]
	delete(uc.pending, state)
	uc.mu.Unlock()

	if !ok || uc.now().Sub(p.created) > authStateTTL {
		return &domain.ValidationError{Message: "unknown or expired state"}
	}

	pair, err := uc.oauth.ExchangeCode(ctx, code, p.verifier)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := uc.creds.StorePair(ctx, pair); err != nil {
		return err
	}

	uc.logger.Info("OA authorization completed")
	return nil
}

func (uc *AuthorizationUsecase) gcLocked() {
	now := uc.now()
	for state, p := range uc.pending {
		if now.Sub(p.created) > authStateTTL {
			delete(uc.pending, state)
		}
	}
}
