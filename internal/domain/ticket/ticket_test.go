package ticket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
)

func TestNewState(t *testing.T) {
	s := NewState("chan-1", 42, "user-1", "alice#0001", "Giveaways", true)

	assert.Equal(t, "chan-1", s.ChannelID)
	assert.Equal(t, 42, s.TicketNumber)
	assert.Equal(t, FlowAwaitingConfirm, s.Flow.Kind)
	assert.True(t, s.IsVerified)
	assert.False(t, s.AwaitingSupport)
	assert.False(t, s.CreatedAt.IsZero())
	assert.True(t, s.Flags().AwaitConfirm)
}

func TestState_AdvanceStep(t *testing.T) {
	s := NewState("c", 1, "u", "tag", "Giveaways", false)
	s.Enter(CasinoChecklist("RioAce"))
	s.Record(evidence.Seen{HasImage: true})

	require.NoError(t, s.AdvanceStep(3))
	assert.Equal(t, 1, s.Flow.Step)
	assert.Nil(t, s.Flow.Evidence, "evidence must not leak into the next step")

	require.NoError(t, s.AdvanceStep(3))
	assert.Equal(t, 2, s.Flow.Step)

	assert.ErrorIs(t, s.AdvanceStep(3), ErrInvalidTransition)
	assert.Equal(t, 2, s.Flow.Step)
}

func TestState_AdvanceStepOutsideChecklist(t *testing.T) {
	s := NewState("c", 1, "u", "tag", "Giveaways", false)
	s.Enter(AwaitingLtc())
	assert.ErrorIs(t, s.AdvanceStep(5), ErrInvalidTransition)
}

func TestState_EnterDropsEvidence(t *testing.T) {
	s := NewState("c", 1, "u", "tag", "Giveaways", false)
	s.Enter(TelegramCode())
	s.Record(evidence.Seen{HasImage: true})
	require.NotNil(t, s.Flow.Evidence)

	s.Enter(AwaitingLtc())
	assert.Nil(t, s.Flow.Evidence)
	assert.Equal(t, evidence.Seen{}, s.Flow.Seen())
}

func TestState_Flags(t *testing.T) {
	tests := []struct {
		name  string
		flow  Flow
		check func(t *testing.T, f Flags)
	}{
		{"vip checklist", VIPChecklist(casino.VIPSemanal), func(t *testing.T, f Flags) {
			assert.True(t, f.AwaitProof)
			assert.False(t, f.AwaitConfirm)
		}},
		{"casino selection", CasinoSelection([]casino.ID{"A", "B"}), func(t *testing.T, f Flags) {
			assert.True(t, f.AwaitingCasinoSelection)
			assert.Equal(t, []casino.ID{"A", "B"}, f.AllowedCasinos)
		}},
		{"ltc", AwaitingLtc(), func(t *testing.T, f Flags) { assert.True(t, f.AwaitLtcOnly) }},
		{"twitch", AwaitingTwitch(), func(t *testing.T, f Flags) { assert.True(t, f.AwaitTwitchNick) }},
		{"description", AwaitingDescription(), func(t *testing.T, f Flags) { assert.True(t, f.AwaitDescription) }},
		{"telegram", TelegramCode(), func(t *testing.T, f Flags) { assert.True(t, f.AwaitTelegramCode) }},
		{"completed", Completed(), func(t *testing.T, f Flags) {
			assert.Equal(t, Flags{}, f)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState("c", 1, "u", "tag", "Giveaways", false)
			s.Enter(tt.flow)
			tt.check(t, s.Flags())
		})
	}
}

func TestFlow_Allows(t *testing.T) {
	f := CasinoSelection([]casino.ID{"RioAce"})
	assert.True(t, f.Allows("RioAce"))
	assert.False(t, f.Allows("BetX"))
}

func TestState_JSONRoundTripKeepsFlow(t *testing.T) {
	s := NewState("c", 7, "u", "tag", "Giveaways", false)
	s.Enter(CasinoChecklist("RioAce"))
	s.Record(evidence.Seen{HasImage: true})
	s.Pause()

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out State
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, FlowCasinoChecklist, out.Flow.Kind)
	assert.Equal(t, casino.ID("RioAce"), out.Flow.Casino)
	require.NotNil(t, out.Flow.Evidence)
	assert.True(t, out.Flow.Evidence.HasImage)
	assert.True(t, out.AwaitingSupport)

	out.Resume()
	assert.False(t, out.AwaitingSupport)
}
