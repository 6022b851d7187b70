package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appConversation "github.com/ticket-hub/ticket-hub/internal/application/conversation"
	appRedemption "github.com/ticket-hub/ticket-hub/internal/application/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

type giveawayTypeRequest struct {
	UserID string              `json:"userId"`
	Type   ticket.GiveawayType `json:"type"`
}

type casinoRequest struct {
	UserID string    `json:"userId"`
	Casino casino.ID `json:"casino"`
}

type vipRequest struct {
	UserID    string         `json:"userId"`
	VIPType   casino.VIPType `json:"vipType"`
	VIPCasino string         `json:"vipCasino"`
}

type descriptionRequest struct {
	UserID      string             `json:"userId"`
	WebsiteType ticket.WebsiteType `json:"websiteType"`
}

type userRequest struct {
	UserID string `json:"userId"`
}

type resolveDuplicateRequest struct {
	// ActionID is the id of the staff alert button, carrying both channels.
	ActionID   string   `json:"actionId"`
	ChannelIDs []string `json:"channelIds"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg platform.Message
	if err := decodeBody(r, &msg); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if msg.ChannelID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "channelId is required")
		return
	}
	res, err := s.conversationSvc.HandleMessage(r.Context(), msg)
	s.respondResult(w, r, res, err)
}

func (s *Server) openTicket(w http.ResponseWriter, r *http.Request) {
	var req appConversation.OpenTicketInput
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.OpenTicket(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	st, err := s.conversationSvc.Get(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ticket": st, "flags": st.Flags()})
}

func (s *Server) getTicketActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	entries, err := s.activitySvc.History(r.Context(), chi.URLParam(r, "channelId"), limit)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) selectGiveawayType(w http.ResponseWriter, r *http.Request) {
	var req giveawayTypeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.SelectGiveawayType(r.Context(), chi.URLParam(r, "channelId"), req.UserID, req.Type)
	s.respondResult(w, r, res, err)
}

func (s *Server) selectCasino(w http.ResponseWriter, r *http.Request) {
	var req casinoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.SelectCasino(r.Context(), chi.URLParam(r, "channelId"), req.UserID, req.Casino)
	s.respondResult(w, r, res, err)
}

func (s *Server) startVIP(w http.ResponseWriter, r *http.Request) {
	var req vipRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.StartVIP(r.Context(), chi.URLParam(r, "channelId"), req.UserID, req.VIPType, req.VIPCasino)
	s.respondResult(w, r, res, err)
}

func (s *Server) startDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	switch req.WebsiteType {
	case "", ticket.WebsiteBug, ticket.WebsiteRedeem:
	default:
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid websiteType")
		return
	}
	res, err := s.conversationSvc.StartDescription(r.Context(), chi.URLParam(r, "channelId"), req.UserID, req.WebsiteType)
	s.respondResult(w, r, res, err)
}

func (s *Server) startTwitchNick(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.StartTwitchNick(r.Context(), chi.URLParam(r, "channelId"), req.UserID)
	s.respondResult(w, r, res, err)
}

func (s *Server) selectRedeem(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.conversationSvc.SelectRedeem(r.Context(), chi.URLParam(r, "channelId"), req.UserID, chi.URLParam(r, "redeemId"))
	s.respondResult(w, r, res, err)
}

func (s *Server) completeRedeem(w http.ResponseWriter, r *http.Request) {
	res, err := s.conversationSvc.CompleteRedeem(r.Context(), actorFromRequest(r), chi.URLParam(r, "channelId"), chi.URLParam(r, "redeemId"))
	s.respondResult(w, r, res, err)
}

func (s *Server) closeTicket(w http.ResponseWriter, r *http.Request) {
	res, err := s.conversationSvc.CloseTicket(r.Context(), actorFromRequest(r), chi.URLParam(r, "channelId"))
	s.respondResult(w, r, res, err)
}

func (s *Server) resolveDuplicate(w http.ResponseWriter, r *http.Request) {
	var req resolveDuplicateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	channels := req.ChannelIDs
	if req.ActionID != "" {
		current, original, ok := appRedemption.ParseResolveActionID(req.ActionID)
		if !ok {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid actionId")
			return
		}
		channels = append(channels, current, original)
	}
	if len(channels) == 0 {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "actionId or channelIds is required")
		return
	}
	res, err := s.conversationSvc.ResolveDuplicate(r.Context(), actorFromRequest(r), channels...)
	s.respondResult(w, r, res, err)
}

func (s *Server) respondResult(w http.ResponseWriter, r *http.Request, res *appConversation.Result, err error) {
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.publish(res)
	respondJSON(w, http.StatusOK, res)
}
