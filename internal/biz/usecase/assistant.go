package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// AssistantConfig holds the small-talk persona settings
type AssistantConfig struct {
	SystemPrompt  string
	FallbackReply string
	Temperature   float32
	MaxTokens     int
}

// AssistantUsecase answers normal conversation
type AssistantUsecase struct {
	llm    repo.LanguageModel
	cfg    AssistantConfig
	logger *zap.Logger
}

// NewAssistantUsecase creates a new assistant usecase
func NewAssistantUsecase(llm repo.LanguageModel, cfg AssistantConfig, logger *zap.Logger) *AssistantUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantUsecase{llm: llm, cfg: cfg, logger: logger.Named("assistant")}
}

// Reply generates a persona reply for the message
func (uc *AssistantUsecase) Reply(ctx context.Context, message string) (string, error) {
	reply, err := uc.llm.Complete(ctx, domain.CompletionRequest{
		Messages:    domain.Prompt(uc.cfg.SystemPrompt, message),
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// HandleNormalConversation is the dispatcher handler for small talk.
// It reads the message from the "query" parameter.
func (uc *AssistantUsecase) HandleNormalConversation(ctx context.Context, params map[string]any) domain.ActionResult {
	message, _ := params["query"].(string)
	reply, err := uc.Reply(ctx, message)
	if err != nil || reply == "" {
		if err != nil {
			uc.logger.Warn("reply generation failed", zap.Error(err))
		}
		return domain.ActionResult{
			Action:  domain.ActionNormalConversation,
			Status:  domain.ActionError,
			Message: uc.cfg.FallbackReply,
		}
	}
	return domain.ActionResult{
		Action:  domain.ActionNormalConversation,
		Status:  domain.ActionSuccess,
		Message: reply,
	}
}
