package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
)

// WebhookResult is the structured response for one webhook
type WebhookResult struct {
	Status          string               `json:"status"`
	ConversationID  string               `json:"conversation_id"`
	EventType       string               `json:"event_type"`
	ResponseSent    bool                 `json:"response_sent"`
	ResponseText    string               `json:"response_text,omitempty"`
	Action          *domain.Intent       `json:"action,omitempty"`
	InventoryAction *domain.ActionResult `json:"inventory_action,omitempty"`
	Error           string               `json:"error,omitempty"`
}

// WebhookService runs the inbound pipeline:
// parse, classify, record, dispatch, reply
type WebhookService struct {
	classifier    *usecase.ClassifierUsecase
	dispatcher    *usecase.Dispatcher
	responder     *usecase.ResponderUsecase
	conversations repo.ConversationRepo
	logger        *zap.Logger

	newID func() string
	now   func() time.Time
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	classifier *usecase.ClassifierUsecase,
	dispatcher *usecase.Dispatcher,
	responder *usecase.ResponderUsecase,
	conversations repo.ConversationRepo,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		classifier:    classifier,
		dispatcher:    dispatcher,
		responder:     responder,
		conversations: conversations,
		logger:        logger.Named("webhook"),
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// Process handles a decoded payload. Only a failed conversation write is returned as an error.
func (s *WebhookService) Process(ctx context.Context, payload map[string]any, raw []byte) (*WebhookResult, error) {
	event := usecase.ParseEvent(payload, raw)
	log := s.logger.With(
		zap.String("event_type", event.EventType),
		zap.String("group_id", event.GroupID),
		zap.String("sender_id", event.SenderID),
	)

	// 1. Classify text messages
	var intent *domain.Intent
	if event.IsText() {
		classified := s.classifier.Classify(ctx, event.MessageText)
		intent = &classified
		log.Info("message classified", zap.String("intent", string(intent.Kind)))
	}

	// 2. Record before any side effect
	rec := domain.NewConversationRecord(s.newID(), event, intent, s.now())
	if err := s.conversations.Append(ctx, rec); err != nil {
		log.Error("failed to record conversation", zap.Error(err))
		return nil, fmt.Errorf("failed to record conversation: %w", err)
	}

	result := &WebhookResult{
		Status:         "success",
		ConversationID: rec.ID,
		EventType:      event.EventType,
		Action:         intent,
	}
	if intent == nil {
		return result, nil
	}

	// 3. Dispatch; handlers read the message text from "query"
	if intent.Parameters == nil {
		intent.Parameters = map[string]any{}
	}
	intent.Parameters["query"] = event.MessageText

	action := s.dispatcher.Dispatch(ctx, *intent)
	result.InventoryAction = &action
	log.Info("action handled",
		zap.String("action", action.Action),
		zap.String("status", string(action.Status)),
	)

	// 4. Reply
	if !intent.Kind.Replies() || action.Message == "" {
		return result, nil
	}
	delivery := s.responder.Reply(ctx, event.GroupID, action.Message)
	result.ResponseSent = delivery.Sent
	result.ResponseText = delivery.Text
	result.Error = delivery.Error
	return result, nil
}
