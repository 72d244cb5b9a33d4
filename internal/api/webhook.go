package api

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
)

// ============ Webhook Handler ============

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		s.writeError(w, &domain.ValidationError{Message: "failed to read body"})
		return
	}
	if len(body) > maxBodyBytes {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"status": "error", "error": "payload too large"})
		return
	}

	if !usecase.VerifySignature(body, r.Header.Get(usecase.SignatureHeader), s.opts.WebhookSecret) {
		s.logger.Warn("webhook signature rejected", zap.String("remote", r.RemoteAddr))
		s.writeError(w, domain.ErrAuthentication)
		return
	}

	payload, err := usecase.DecodePayload(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.WebhookTimeout)
	defer cancel()

	result, err := s.Webhook.Process(ctx, payload, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// ============ History Handlers ============

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	records, err := s.Conversations.List(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleHistoryByEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	records, err := s.Conversations.ListByEventType(r.Context(), r.PathValue("type"),
		queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	record, err := s.Conversations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}
