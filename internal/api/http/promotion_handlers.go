package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type promotionCreateRequest struct {
	Name   string    `json:"name"`
	End    time.Time `json:"end"`
	Casino string    `json:"casino"`
	Color  string    `json:"color"`
	Emoji  string    `json:"emoji"`
}

func (s *Server) listPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := s.promotionMgr.List(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"promotions": promos})
}

func (s *Server) activePromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := s.promotionMgr.Active(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"promotions": promos})
}

func (s *Server) createPromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.End.IsZero() {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "end is required")
		return
	}
	id, err := s.promotionMgr.Create(r.Context(), req.Name, req.End, req.Casino, req.Color, req.Emoji)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

func (s *Server) closePromotion(w http.ResponseWriter, r *http.Request) {
	if err := s.promotionMgr.Close(r.Context(), chi.URLParam(r, "promotionId")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "closed"})
}

func (s *Server) refreshPromotions(w http.ResponseWriter, r *http.Request) {
	if err := s.promotionMgr.Refresh(r.Context()); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "refreshed"})
}
