package api

import (
	"net/http"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
)

// ============ Item Handlers ============

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		items, err := s.Catalog.List(ctx, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var req usecase.ItemRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		item, err := s.Catalog.Create(ctx, req)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, item)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		item, err := s.Catalog.Get(ctx, id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, item)

	case http.MethodPut:
		var req usecase.ItemRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		item, err := s.Catalog.Update(ctx, id, req)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		if err := s.Catalog.Delete(ctx, id); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		s.methodNotAllowed(w)
	}
}
