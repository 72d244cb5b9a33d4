package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// Mock implementations

type mockLLM struct {
	mu      sync.Mutex
	replies []string // returned in order, last one repeats
	calls   int
}

func (m *mockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.replies) == 0 {
		return "", errors.New("no reply configured")
	}
	idx := m.calls - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return m.replies[idx], nil
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

type sentMessage struct {
	token, groupID, text string
}

type mockMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockMessenger) SendGroupText(ctx context.Context, accessToken, groupID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{accessToken, groupID, text})
	return nil
}

type mockOAuth struct{}

func (mockOAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return &domain.TokenPair{AccessToken: "refreshed", RefreshToken: refreshToken}, nil
}

func (mockOAuth) ExchangeCode(ctx context.Context, code, verifier string) (*domain.TokenPair, error) {
	return &domain.TokenPair{AccessToken: "exchanged"}, nil
}

type memCredentialRepo struct {
	mu   sync.Mutex
	cred *domain.StoredCredential
}

func validCredential() *memCredentialRepo {
	return &memCredentialRepo{cred: &domain.StoredCredential{
		AccessToken: "token-1", RefreshToken: "r", Expiry: time.Now().Add(time.Hour),
	}}
}

func (m *memCredentialRepo) Load(ctx context.Context) (*domain.StoredCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, domain.ErrNoCredential
	}
	c := *m.cred
	return &c, nil
}

func (m *memCredentialRepo) Save(ctx context.Context, cred *domain.StoredCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cred
	m.cred = &c
	return nil
}

func (m *memCredentialRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	return nil
}

type failingConversationRepo struct{}

func (failingConversationRepo) Append(ctx context.Context, rec *domain.ConversationRecord) error {
	return errors.New("disk full")
}

func (failingConversationRepo) Get(ctx context.Context, id string) (*domain.ConversationRecord, error) {
	return nil, domain.ErrNotFound
}

func (failingConversationRepo) List(ctx context.Context, limit, offset int) ([]*domain.ConversationRecord, error) {
	return nil, nil
}

func (failingConversationRepo) ListByEventType(ctx context.Context, eventType string, limit, offset int) ([]*domain.ConversationRecord, error) {
	return nil, nil
}
