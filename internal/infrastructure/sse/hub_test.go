package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
)

func TestHub_PublishFiltersByChannel(t *testing.T) {
	hub := NewHub()
	staff := NewClient("staff-feed", []string{"staff"})
	all := NewClient("all", nil)
	hub.Register(staff)
	hub.Register(all)
	assert.Equal(t, 2, hub.ClientCount())

	sent, err := hub.Publish(platform.Notice{ChannelID: "chan-a", Key: "ticket_paused_for_review", Text: "pausado"})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = hub.Publish(platform.Notice{ChannelID: "staff", Key: "duplicate_code_alert", Text: "alerta"})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	msg := <-staff.MessageChan
	assert.Equal(t, EventNotice, msg.Event)
	var n platform.Notice
	require.NoError(t, json.Unmarshal(msg.Data, &n))
	assert.Equal(t, "duplicate_code_alert", n.Key)
	assert.Len(t, all.MessageChan, 2)
}

func TestHub_FullBufferDropsNotice(t *testing.T) {
	hub := NewHub()
	c := &Client{ClientID: "slow", MessageChan: make(chan *Message, 1)}
	hub.Register(c)

	sent, _ := hub.Publish(platform.Notice{ChannelID: "staff"})
	assert.Equal(t, 1, sent)
	sent, _ = hub.Publish(platform.Notice{ChannelID: "staff"})
	assert.Equal(t, 0, sent)
}

func TestHub_RegisterReplacesAndUnregister(t *testing.T) {
	hub := NewHub()
	first := NewClient("gw", nil)
	second := NewClient("gw", nil)
	hub.Register(first)
	hub.Register(second)

	_, open := <-first.MessageChan
	assert.False(t, open, "replaced client is closed")

	hub.Unregister(first)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(second)
	assert.Equal(t, 0, hub.ClientCount())

	hub.Register(NewClient("x", nil))
	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())
}
