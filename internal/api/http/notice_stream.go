package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	appConversation "github.com/ticket-hub/ticket-hub/internal/application/conversation"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/sse"
)

// noticeStream streams notices for other channels to the gateway as
// server-sent events. ?channels=a,b limits the stream to those channels.
func (s *Server) noticeStream(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}
	client := sse.NewClient(clientID, splitCSV(r.URL.Query().Get("channels")))
	s.sseHub.Register(client)
	defer s.sseHub.Unregister(client)

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case msg := <-client.MessageChan:
			if msg == nil {
				return
			}
			payload, _ := json.Marshal(msg)
			_, _ = w.Write([]byte("event: " + msg.Event + "\ndata: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// publish forwards the notices of a result to the stream subscribers.
func (s *Server) publish(res *appConversation.Result) {
	if res == nil || s.sseHub == nil {
		return
	}
	for _, n := range res.Notices {
		sent, err := s.sseHub.Publish(n)
		if err != nil {
			s.logger.Error().Err(err).Str("channel_id", n.ChannelID).Msg("failed to publish notice")
			continue
		}
		s.logger.Debug().Str("channel_id", n.ChannelID).Str("key", n.Key).Int("subscribers", sent).Msg("notice published")
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
