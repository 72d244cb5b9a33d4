package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
)

const (
	zaloTimeout      = 30 * time.Second
	zaloTokenPath    = "/v4/oa/access_token"
	zaloGroupMsgPath = "/v3.0/oa/group/message"
)

// ZaloClient calls the Zalo OA OAuth and messaging APIs
type ZaloClient struct {
	httpClient *http.Client
	appID      string
	appSecret  string
	oauthURL   string
	apiURL     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewZaloClient creates a new Zalo client
func NewZaloClient(cfg conf.ZaloConfig, logger *zap.Logger) *ZaloClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.SendRate > 0 {
		limit = rate.Limit(cfg.SendRate)
	}
	burst := cfg.SendBurst
	if burst < 1 {
		burst = 1
	}
	return &ZaloClient{
		httpClient: &http.Client{Timeout: zaloTimeout},
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		oauthURL:   strings.TrimRight(cfg.OAuthURL, "/"),
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.Named("zalo"),
	}
}

// ========== OAuth ==========

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    json.RawMessage `json:"expires_in"` // Zalo sends a string
	Error        int             `json:"error"`
	ErrorName    string          `json:"error_name"`
	ErrorReason  string          `json:"error_reason"`
	Message      string          `json:"message"`
}

// RefreshAccessToken exchanges a refresh token for a new pair
func (c *ZaloClient) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	form := url.Values{
		"refresh_token": {refreshToken},
		"app_id":        {c.appID},
		"grant_type":    {"refresh_token"},
	}
	return c.tokenRequest(ctx, form)
}

// ExchangeCode exchanges an authorization code obtained with PKCE
func (c *ZaloClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*domain.TokenPair, error) {
	form := url.Values{
		"code":          {code},
		"app_id":        {c.appID},
		"grant_type":    {"authorization_code"},
		"code_verifier": {codeVerifier},
	}
	return c.tokenRequest(ctx, form)
}

func (c *ZaloClient) tokenRequest(ctx context.Context, form url.Values) (*domain.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL+zaloTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("secret_key", c.appSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		reason := tr.ErrorReason
		if reason == "" {
			reason = tr.ErrorName
		}
		if reason == "" {
			reason = tr.Message
		}
		return nil, fmt.Errorf("no access token in response (error %d: %s)", tr.Error, reason)
	}

	return &domain.TokenPair{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresIn:    parseExpiresIn(tr.ExpiresIn),
	}, nil
}

func parseExpiresIn(raw json.RawMessage) time.Duration {
	s := strings.Trim(string(raw), `"`)
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// ========== Messaging ==========

type groupMessage struct {
	Recipient struct {
		GroupID string `json:"group_id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

type apiResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// SendGroupText sends a text message to an OA group
func (c *ZaloClient) SendGroupText(ctx context.Context, accessToken, groupID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.DeliveryError{Message: "rate limiter", Err: err}
	}

	var msg groupMessage
	msg.Recipient.GroupID = groupID
	msg.Message.Text = text
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+zaloGroupMsgPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.DeliveryError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &domain.DeliveryError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200), Err: domain.ErrUnauthorized}
	case resp.StatusCode != http.StatusOK:
		return &domain.DeliveryError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	var ar apiResponse
	if err := json.Unmarshal(body, &ar); err == nil && ar.Error != 0 {
		return &domain.DeliveryError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("zalo error %d: %s", ar.Error, ar.Message),
		}
	}

	c.logger.Debug("group message sent", zap.String("group_id", groupID))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
