package repo

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// LanguageModel is the LLM client interface
type LanguageModel interface {
	// Complete runs a chat completion and returns the first choice's text
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)

	// Embed returns an embedding vector for text
	Embed(ctx context.Context, text string) ([]float32, error)
}
