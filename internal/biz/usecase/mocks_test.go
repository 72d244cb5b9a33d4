package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// Mock implementations

type mockLLM struct {
	replies  []string // returned in order, last one repeats
	err      error
	requests []domain.CompletionRequest
	mu       sync.Mutex
}

func (m *mockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	idx := len(m.requests) - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return m.replies[idx], nil
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockItemRepo struct {
	items   []*domain.Item
	err     error
	queried [][]string
	mu      sync.Mutex
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockItemRepo) Get(ctx context.Context, id string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockItemRepo) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.items) {
		end = len(m.items)
	}
	return m.items[offset:end], nil
}

func (m *mockItemRepo) FindBySKUs(ctx context.Context, skus []string) ([]*domain.Item, error) {
	return m.find(skus, func(it *domain.Item) string { return it.SKU })
}

func (m *mockItemRepo) FindByBarcodes(ctx context.Context, barcodes []string) ([]*domain.Item, error) {
	return m.find(barcodes, func(it *domain.Item) string { return it.Barcode })
}

func (m *mockItemRepo) find(keys []string, field func(*domain.Item) string) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queried = append(m.queried, keys)
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Item
	for _, it := range m.items {
		for _, k := range keys {
			if strings.EqualFold(field(it), k) {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

type mockSearchIndex struct {
	result  *domain.SearchResult
	err     error
	params  []domain.SearchParams
	indexed []*domain.Item
	removed []string
	mu      sync.Mutex
}

func (m *mockSearchIndex) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = append(m.params, params)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.SearchResult{Page: params.Page, PageSize: params.PageSize}, nil
	}
	return m.result, nil
}

func (m *mockSearchIndex) Index(ctx context.Context, items []*domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.indexed = append(m.indexed, items...)
	return nil
}

func (m *mockSearchIndex) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return nil
}

type mockMessenger struct {
	statuses []error // per call; nil means success, last repeats
	tokens   []string
	sent     []string
	groups   []string
	mu       sync.Mutex
}

func (m *mockMessenger) SendGroupText(ctx context.Context, accessToken, groupID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = append(m.tokens, accessToken)
	idx := len(m.tokens) - 1
	var err error
	if len(m.statuses) > 0 {
		if idx >= len(m.statuses) {
			idx = len(m.statuses) - 1
		}
		err = m.statuses[idx]
	}
	if err == nil {
		m.sent = append(m.sent, text)
		m.groups = append(m.groups, groupID)
	}
	return err
}

func (m *mockMessenger) attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type mockOAuth struct {
	pair          *domain.TokenPair
	err           error
	refreshTokens []string
	codes         []string
	mu            sync.Mutex
}

func (m *mockOAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshTokens = append(m.refreshTokens, refreshToken)
	if m.err != nil {
		return nil, m.err
	}
	pair := *m.pair
	pair.AccessToken = pair.AccessToken + "-" + string(rune('0'+len(m.refreshTokens)))
	return &pair, nil
}

func (m *mockOAuth) ExchangeCode(ctx context.Context, code, verifier string) (*domain.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code+"|"+verifier)
	if m.err != nil {
		return nil, m.err
	}
	pair := *m.pair
	return &pair, nil
}

func (m *mockOAuth) refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refreshTokens)
}

type mockCredentialRepo struct {
	cred    *domain.StoredCredential
	saves   int
	clears  int
	saveErr error
	mu      sync.Mutex
}

func (m *mockCredentialRepo) Load(ctx context.Context) (*domain.StoredCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, domain.ErrNoCredential
	}
	c := *m.cred
	return &c, nil
}

func (m *mockCredentialRepo) Save(ctx context.Context, cred *domain.StoredCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *cred
	m.cred = &c
	m.saves++
	return nil
}

func (m *mockCredentialRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	m.clears++
	return nil
}

var errBoom = errors.New("boom")
