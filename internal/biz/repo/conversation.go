package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// ConversationRepo is the webhook audit log.
// Append is the only write; records are never updated or deleted.
type ConversationRepo interface {
	// Append persists a new record
	Append(ctx context.Context, rec *domain.ConversationRecord) error

	// Get returns one record or domain.ErrNotFound
	Get(ctx context.Context, id string) (*domain.ConversationRecord, error)

	// List returns records newest first
	List(ctx context.Context, limit, offset int) ([]*domain.ConversationRecord, error)

	// ListByEventType returns records of one event type, newest first
	ListByEventType(ctx context.Context, eventType string, limit, offset int) ([]*domain.ConversationRecord, error)
}
