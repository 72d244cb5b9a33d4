package api

import (
	"net/http"
	"strings"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// ============ Inventory Handlers ============

func (s *Server) handleCheckStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	params := map[string]any{}
	if err := s.decodeJSON(w, r, &params); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Inventory.CheckStock(r.Context(), params))
}

// handleSearch runs structured params directly; a bare query goes through the LLM parser
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	var sp domain.SearchParams
	if err := s.decodeJSON(w, r, &sp); err != nil {
		s.writeError(w, err)
		return
	}

	structured := sp.Category != "" || sp.Color != "" || sp.Status != "" ||
		sp.PriceRange != nil || len(sp.Specifications) > 0
	if !structured && strings.TrimSpace(sp.Query) != "" {
		s.writeJSON(w, http.StatusOK, s.Inventory.SearchProducts(r.Context(), map[string]any{"query": sp.Query}))
		return
	}
	s.writeJSON(w, http.StatusOK, s.Inventory.Search(r.Context(), sp))
}

func (s *Server) handleStockBySKU(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Inventory.CheckStock(r.Context(), map[string]any{"sku": r.PathValue("sku")}))
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	n, err := s.IndexSync.RunNow(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "indexed": n})
}
