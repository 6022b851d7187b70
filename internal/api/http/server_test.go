package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appActivity "github.com/ticket-hub/ticket-hub/internal/application/activity"
	appConversation "github.com/ticket-hub/ticket-hub/internal/application/conversation"
	appPromotion "github.com/ticket-hub/ticket-hub/internal/application/promotion"
	appRedemption "github.com/ticket-hub/ticket-hub/internal/application/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/memory"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/sse"
)

const testToken = "gateway-secret"

const testRegistry = `
casinos:
  - id: RioAce
    label: Rio Ace
    checklist:
      - title: Registo
        description: Envia o print do registo
        type: [image]
`

type fakeGateway struct{}

func (fakeGateway) RecentMessages(context.Context, string, int) ([]platform.LogMessage, error) {
	return nil, nil
}

func (fakeGateway) ChannelExists(context.Context, string) (bool, error) { return true, nil }

func (fakeGateway) MemberHasRole(context.Context, string, string) (bool, error) { return false, nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := newTestServerWithHub(t)
	return srv
}

func newTestServerWithHub(t *testing.T) (*httptest.Server, *sse.Hub) {
	t.Helper()
	reg, err := casino.ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)

	logger := zerolog.Nop()
	tickets := memory.NewTicketRepository()
	activitySvc := appActivity.NewService(memory.NewActivityRepository(), logger)
	validator := appRedemption.NewValidator(memory.NewLedger(), fakeGateway{}, fakeGateway{}, activitySvc, reg,
		appRedemption.Config{LogsChannelID: "logs", StaffChannelID: "staff"}, logger)
	promotions := appPromotion.NewManager(memory.NewPromotionRepository(), logger)
	require.NoError(t, promotions.Start(context.Background()))
	conversation := appConversation.NewService(tickets, reg, validator, promotions, memory.NewRedeemRepository(), activitySvc, "staff", logger)

	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	require.NoError(t, err)

	hub := sse.NewHub()
	srv := httptest.NewServer(NewServer(conversation, promotions, activitySvc, reg, hub, string(hash), logger).Router())
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Stop)
	return srv, hub
}

func call(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("X-Actor", "staff-1")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHealthz_NoAuth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/v1/casinos")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/casinos", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	status, body := call(t, srv, http.MethodGet, "/v1/casinos", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["casinos"], 1)
}

func TestTicketLifecycle(t *testing.T) {
	srv := newTestServer(t)

	open := map[string]interface{}{"channelId": "c1", "ticketNumber": 7, "ownerId": "u1", "ownerTag": "u1#0001", "category": "Giveaways"}
	status, body := call(t, srv, http.MethodPost, "/v1/tickets", open)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "prompt", body["outcome"])

	status, _ = call(t, srv, http.MethodPost, "/v1/tickets", open)
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, srv, http.MethodGet, "/v1/tickets/c1", nil)
	require.Equal(t, http.StatusOK, status)
	flags := body["flags"].(map[string]interface{})
	assert.Equal(t, true, flags["awaitConfirm"])

	status, _ = call(t, srv, http.MethodGet, "/v1/tickets/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, srv, http.MethodPost, "/v1/messages", map[string]interface{}{"channelId": "c1", "authorId": "u1", "text": "Sim, eu confirmo"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "show_giveaway_types", body["outcome"])

	status, _ = call(t, srv, http.MethodPost, "/v1/tickets/c1/giveaway-type", map[string]interface{}{"userId": "u1", "type": "lottery"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, srv, http.MethodPost, "/v1/tickets/c1/giveaway-type", map[string]interface{}{"userId": "u1", "type": "gtb"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "casino_selection", body["outcome"])

	status, _ = call(t, srv, http.MethodPost, "/v1/tickets/c1/giveaway-type", map[string]interface{}{"userId": "u1", "type": "gtb"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, srv, http.MethodPost, "/v1/tickets/c1/casino", map[string]interface{}{"userId": "u1", "casino": "Nowhere"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, srv, http.MethodPost, "/v1/tickets/c1/casino", map[string]interface{}{"userId": "u1", "casino": "rio ace"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "advanced", body["outcome"])

	status, body = call(t, srv, http.MethodGet, "/v1/tickets/c1/activity", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["entries"], 4)

	status, body = call(t, srv, http.MethodPost, "/v1/tickets/c1/close", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", body["outcome"])

	status, _ = call(t, srv, http.MethodGet, "/v1/tickets/c1", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestResolveDuplicate_Validation(t *testing.T) {
	srv := newTestServer(t)

	status, _ := call(t, srv, http.MethodPost, "/v1/tickets/resolve-duplicate", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPost, "/v1/tickets/resolve-duplicate", map[string]interface{}{"actionId": "nope"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := call(t, srv, http.MethodPost, "/v1/tickets/resolve-duplicate", map[string]interface{}{"actionId": "duplicate_resolved_c2_c1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "resolved", body["outcome"])
}

func TestPromotions(t *testing.T) {
	srv := newTestServer(t)

	status, _ := call(t, srv, http.MethodPost, "/v1/promotions", map[string]interface{}{"name": " ", "end": time.Now().Add(time.Hour)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := call(t, srv, http.MethodPost, "/v1/promotions", map[string]interface{}{
		"name": "Halloween", "end": time.Now().Add(time.Hour), "casino": "RioAce", "color": "red", "emoji": "🎃",
	})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)
	assert.Len(t, id, 8)

	status, body = call(t, srv, http.MethodGet, "/v1/promotions/active", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["promotions"], 1)

	status, _ = call(t, srv, http.MethodPost, "/v1/promotions/"+id+"/close", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, srv, http.MethodGet, "/v1/promotions/active", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["promotions"])

	status, body = call(t, srv, http.MethodGet, "/v1/promotions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["promotions"], 1)
}

func TestNoticesArePublished(t *testing.T) {
	srv, hub := newTestServerWithHub(t)
	staff := sse.NewClient("staff-feed", []string{"staff"})
	hub.Register(staff)

	open := map[string]interface{}{"channelId": "q1", "ticketNumber": 3, "ownerId": "u1", "ownerTag": "u1#0001", "category": "Dúvidas"}
	status, _ := call(t, srv, http.MethodPost, "/v1/tickets", open)
	require.Equal(t, http.StatusCreated, status)

	status, body := call(t, srv, http.MethodPost, "/v1/messages", map[string]interface{}{"channelId": "q1", "authorId": "u1", "text": "Não consigo levantar o meu prémio"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "description_received", body["outcome"])

	select {
	case msg := <-staff.MessageChan:
		require.NotNil(t, msg)
		assert.Equal(t, sse.EventNotice, msg.Event)
		var n platform.Notice
		require.NoError(t, json.Unmarshal(msg.Data, &n))
		assert.Equal(t, "staff", n.ChannelID)
		assert.Contains(t, n.Text, "levantar")
	case <-time.After(time.Second):
		t.Fatal("staff notice was not published")
	}
}
