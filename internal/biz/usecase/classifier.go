package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

// ClassifierConfig holds the classification prompt settings
type ClassifierConfig struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// DefaultClassifierConfig is used when no prompt is configured
var DefaultClassifierConfig = ClassifierConfig{
	Temperature: 0.7,
	MaxTokens:   2000,
}

// ClassifierUsecase turns message text into an intent
type ClassifierUsecase struct {
	llm    repo.LanguageModel
	cfg    ClassifierConfig
	logger *zap.Logger
}

// NewClassifierUsecase creates a new classifier usecase
func NewClassifierUsecase(llm repo.LanguageModel, cfg ClassifierConfig, logger *zap.Logger) *ClassifierUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassifierUsecase{llm: llm, cfg: cfg, logger: logger.Named("classifier")}
}

// Classify never fails: errors are reported on the returned intent
func (uc *ClassifierUsecase) Classify(ctx context.Context, text string) domain.Intent {
	intent, err := uc.classify(ctx, text)
	if err != nil {
		uc.logger.Warn("classification failed", zap.Error(err))
		return domain.UnknownIntent(err.Error())
	}
	return intent
}

func (uc *ClassifierUsecase) classify(ctx context.Context, text string) (domain.Intent, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Intent{}, &domain.ClassificationError{Err: errors.New("empty message")}
	}
	if uc.llm == nil {
		return domain.Intent{}, &domain.ClassificationError{Err: errors.New("no language model configured")}
	}

	raw, err := uc.llm.Complete(ctx, domain.CompletionRequest{
		Messages:    domain.Prompt(uc.cfg.SystemPrompt, text),
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
	})
	if err != nil {
		return domain.Intent{}, &domain.ClassificationError{Err: err}
	}

	var reply map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &reply); err != nil {
		return domain.Intent{}, &domain.ClassificationError{Err: fmt.Errorf("invalid JSON reply: %w", err)}
	}
	if reply == nil {
		return domain.Intent{}, &domain.ClassificationError{Err: errors.New("reply is not a JSON object")}
	}

	intent := domain.Intent{Parameters: map[string]any{}}
	// a null or non-string label simply classifies as UNKNOWN
	_ = json.Unmarshal(reply["intent"], &intent.Label)
	if params, ok := reply["parameters"]; ok {
		var decoded map[string]any
		if json.Unmarshal(params, &decoded) == nil && decoded != nil {
			intent.Parameters = decoded
		}
	}
	intent.Kind = domain.ParseIntentKind(intent.Label)

	uc.logger.Debug("classified",
		zap.String("label", intent.Label),
		zap.String("kind", string(intent.Kind)),
	)
	return intent, nil
}

// StripCodeFence removes a surrounding Markdown code fence
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
