package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appActivity "github.com/ticket-hub/ticket-hub/internal/application/activity"
	appConversation "github.com/ticket-hub/ticket-hub/internal/application/conversation"
	appPromotion "github.com/ticket-hub/ticket-hub/internal/application/promotion"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	conversationSvc *appConversation.Service
	promotionMgr    *appPromotion.Manager
	activitySvc     *appActivity.Service
	registry        *casino.Registry
	sseHub          *sse.Hub
	tokenHash       []byte
	logger          zerolog.Logger
}

func NewServer(
	conversationSvc *appConversation.Service,
	promotionMgr *appPromotion.Manager,
	activitySvc *appActivity.Service,
	registry *casino.Registry,
	sseHub *sse.Hub,
	tokenHash string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		conversationSvc: conversationSvc,
		promotionMgr:    promotionMgr,
		activitySvc:     activitySvc,
		registry:        registry,
		sseHub:          sseHub,
		tokenHash:       []byte(tokenHash),
		logger:          logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/notices/stream", s.noticeStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Post("/messages", s.handleMessage)

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", s.openTicket)
				r.Post("/resolve-duplicate", s.resolveDuplicate)
				r.Get("/{channelId}", s.getTicket)
				r.Get("/{channelId}/activity", s.getTicketActivity)
				r.Post("/{channelId}/giveaway-type", s.selectGiveawayType)
				r.Post("/{channelId}/casino", s.selectCasino)
				r.Post("/{channelId}/vip", s.startVIP)
				r.Post("/{channelId}/description", s.startDescription)
				r.Post("/{channelId}/twitch-nick", s.startTwitchNick)
				r.Post("/{channelId}/redeems/{redeemId}/select", s.selectRedeem)
				r.Post("/{channelId}/redeems/{redeemId}/complete", s.completeRedeem)
				r.Post("/{channelId}/close", s.closeTicket)
			})

			r.Route("/promotions", func(r chi.Router) {
				r.Get("/", s.listPromotions)
				r.Post("/", s.createPromotion)
				r.Get("/active", s.activePromotions)
				r.Post("/refresh", s.refreshPromotions)
				r.Post("/{promotionId}/close", s.closePromotion)
			})

			r.Get("/casinos", s.listCasinos)
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	select {
	case <-s.promotionMgr.Ready():
	default:
		status = "starting"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": status})
}

func (s *Server) listCasinos(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"casinos": s.registry.All()})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondServiceError maps domain sentinels to HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ticket.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ticket.ErrInvalidTransition), errors.Is(err, ticket.ErrAlreadyOpen):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, appConversation.ErrInvalidChoice),
		errors.Is(err, ticket.ErrCasinoNotAllowed),
		errors.Is(err, casino.ErrCasinoNotFound),
		errors.Is(err, promotion.ErrInvalidName):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	case errors.Is(err, promotion.ErrNotReady):
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", err.Error())
	default:
		s.logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// actorFromRequest names the operator driving a staff action.
func actorFromRequest(r *http.Request) string {
	actor := strings.TrimSpace(r.Header.Get("X-Actor"))
	if actor == "" {
		actor = "system"
	}
	return actor
}
