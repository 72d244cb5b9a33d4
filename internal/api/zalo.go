package api

import (
	"net/http"
	"strings"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// ============ Zalo Handlers ============

// GroupMessageRequest is the manual send body
type GroupMessageRequest struct {
	GroupID string `json:"group_id"`
	Text    string `json:"text"`
}

func (s *Server) handleGroupMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	var req GroupMessageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.GroupID) == "" {
		s.writeError(w, &domain.ValidationError{Message: "group_id is required"})
		return
	}

	result := s.Responder.Reply(r.Context(), req.GroupID, req.Text)
	status := http.StatusOK
	if !result.Sent {
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, result)
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	url, _ := s.Authorization.AuthorizeURL()
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	if err := s.Authorization.Callback(r.Context(), q.Get("code"), q.Get("state")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
