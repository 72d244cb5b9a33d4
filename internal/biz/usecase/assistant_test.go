package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

func TestHandleNormalConversation(t *testing.T) {
	llm := &mockLLM{replies: []string{"  Chào bạn! Mình có thể giúp gì?  "}}
	uc := NewAssistantUsecase(llm, AssistantConfig{SystemPrompt: "persona", MaxTokens: 400}, nil)

	result := uc.HandleNormalConversation(context.Background(), map[string]any{"query": "chào ad"})

	assert.Equal(t, domain.ActionSuccess, result.Status)
	assert.Equal(t, domain.ActionNormalConversation, result.Action)
	assert.Equal(t, "Chào bạn! Mình có thể giúp gì?", result.Message)

	require.Len(t, llm.requests, 1)
	assert.Equal(t, "persona", llm.requests[0].Messages[0].Content)
	assert.Equal(t, "chào ad", llm.requests[0].Messages[1].Content)
}

func TestHandleNormalConversation_Fallback(t *testing.T) {
	for _, llm := range []*mockLLM{{err: errBoom}, {replies: []string{"   "}}} {
		uc := NewAssistantUsecase(llm, AssistantConfig{FallbackReply: "Xin lỗi"}, nil)
		result := uc.HandleNormalConversation(context.Background(), map[string]any{"query": "chào"})

		assert.Equal(t, domain.ActionError, result.Status)
		assert.Equal(t, "Xin lỗi", result.Message)
	}
}
