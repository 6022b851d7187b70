package redemption

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	activitysvc "github.com/ticket-hub/ticket-hub/internal/application/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	platformMocks "github.com/ticket-hub/ticket-hub/internal/domain/platform/mocks"
	"github.com/ticket-hub/ticket-hub/internal/domain/redemption"
	redemptionMocks "github.com/ticket-hub/ticket-hub/internal/domain/redemption/mocks"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
	"github.com/ticket-hub/ticket-hub/internal/infrastructure/memory"
)

const (
	logsChannel  = "logs"
	staffChannel = "staff"
)

var now = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

func testRegistry(t *testing.T) *casino.Registry {
	t.Helper()
	reg, err := casino.NewRegistry([]casino.Casino{
		{
			ID:                 "RioAce",
			Label:              "Rio Ace",
			VerificationRoleID: "role-rio",
			Checklist: []casino.ChecklistStep{
				{Description: "Regista-te", Type: nil},
				{Description: "Print do perfil", Type: []evidence.Kind{evidence.KindImage}},
			},
		},
		{
			ID:    "BetX",
			Label: "Bet X",
			Checklist: []casino.ChecklistStep{
				{Description: "Print do depósito", Type: []evidence.Kind{evidence.KindImage}},
			},
		},
		{
			ID:    "Lucky",
			Label: "Lucky Spins",
			Checklist: []casino.ChecklistStep{
				{Description: "Print", Type: []evidence.Kind{evidence.KindImage}},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

type fixture struct {
	ledger    *memory.Ledger
	tickets   *memory.TicketRepository
	actions   *memory.ActivityRepository
	logs      *platformMocks.MockLogSearcher
	directory *platformMocks.MockDirectory
	validator *Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ledger:    memory.NewLedger(),
		tickets:   memory.NewTicketRepository(),
		actions:   memory.NewActivityRepository(),
		logs:      platformMocks.NewMockLogSearcher(ctrl),
		directory: platformMocks.NewMockDirectory(ctrl),
	}
	f.validator = NewValidator(
		f.ledger, f.logs, f.directory,
		activitysvc.NewService(f.actions, zerolog.Nop()),
		testRegistry(t),
		Config{LogsChannelID: logsChannel, StaffChannelID: staffChannel},
		zerolog.Nop(),
	)
	f.validator.SetClock(func() time.Time { return now })
	return f
}

func telegramTicket(channelID string, number int, owner string) *ticket.State {
	st := ticket.NewState(channelID, number, owner, owner+"#0001", "Giveaways", false)
	st.Enter(ticket.TelegramCode())
	st.GiveawayType = ticket.GiveawayTelegram
	st.TelegramCode = "deadbeef"
	return st
}

func logLine(content string, age time.Duration) []platform.LogMessage {
	return []platform.LogMessage{
		{ID: "1", Content: "unrelated giveaway", CreatedAt: now.Add(-time.Minute)},
		{ID: "2", Content: content, CreatedAt: now.Add(-age)},
	}
}

func TestValidator_ReplayPausesCurrentAndFlagsOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := telegramTicket("chan-a", 101, "alice")
	require.NoError(t, f.tickets.Save(ctx, a))

	f.logs.EXPECT().
		RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).
		Return(logLine("Código: DEADBEEF\nprenda: 50\ncasino: BetX", time.Hour), nil)

	first, err := f.validator.Validate(ctx, a, "alice", "alice#0001")
	require.NoError(t, err)
	assert.Equal(t, OutcomeChecklist, first.Outcome)
	assert.Equal(t, "50", a.Prize)
	require.NoError(t, f.tickets.Save(ctx, a))

	b := telegramTicket("chan-b", 202, "bob")
	f.directory.EXPECT().ChannelExists(gomock.Any(), "chan-a").Return(true, nil)

	second, err := f.validator.Validate(ctx, b, "bob", "bob#0002")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplay, second.Outcome)
	require.NotNil(t, second.Original)
	assert.Equal(t, 101, second.Original.TicketNumber)
	assert.Equal(t, "alice#0001", second.Original.UserTag)
	assert.True(t, b.AwaitingSupport)

	assert.Equal(t, "chan-a", second.PauseChannelID)
	storedA, err := f.tickets.Get(ctx, "chan-a")
	require.NoError(t, err)
	assert.False(t, storedA.AwaitingSupport, "the original ticket is paused by its owner's handler")

	owner, err := f.ledger.Get(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "chan-a", owner.TicketChannelID)
	assert.Equal(t, "BetX", owner.CasinoOrNA())

	dups, err := f.ledger.ListDuplicates(ctx, "deadbeef")
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, "chan-b", dups[0].ChannelID)

	require.Len(t, second.Notices, 1)
	alert := second.Notices[0]
	assert.Equal(t, staffChannel, alert.ChannelID)
	assert.Contains(t, alert.Text, "#101")
	assert.Contains(t, alert.Text, "#202")
	assert.Equal(t, "duplicate_resolved_chan-b_chan-a", alert.Actions[len(alert.Actions)-1].ID)

	assert.Contains(t, f.actions.Actions("chan-b"), activity.ActionDuplicateCode)
}

func TestValidator_ReplayWithClosedOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Claim(ctx, redemption.NewCodeRecord("deadbeef", "gone", 7, "carol", "carol#1", "", ""))
	require.NoError(t, err)
	f.directory.EXPECT().ChannelExists(gomock.Any(), "gone").Return(false, nil)

	b := telegramTicket("chan-b", 8, "bob")
	d, err := f.validator.Validate(ctx, b, "bob", "bob#0002")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplay, d.Outcome)
	require.Len(t, d.Notices, 1, "only the staff alert when the original channel is gone")
	assert.Equal(t, staffChannel, d.Notices[0].ChannelID)
	assert.Len(t, d.Notices[0].Actions, 2)
	assert.Contains(t, d.Notices[0].Text, "Casino: N/A")
	assert.Empty(t, d.PauseChannelID)
	assert.True(t, b.AwaitingSupport)
}

func TestValidator_NotFoundAndExpiredStillConsumeCode(t *testing.T) {
	tests := []struct {
		name    string
		logs    []platform.LogMessage
		outcome Outcome
	}{
		{name: "not in logs", logs: logLine("casino: BetX code cafebabe", time.Hour), outcome: OutcomeNotFound},
		{name: "older than window", logs: logLine("deadbeef casino: BetX", 49*time.Hour), outcome: OutcomeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.logs.EXPECT().RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).Return(tt.logs, nil)

			st := telegramTicket("chan-a", 1, "alice")
			d, err := f.validator.Validate(ctx, st, "alice", "alice#0001")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, ticket.FlowTelegramCode, st.Flow.Kind)
			assert.Nil(t, st.Flow.Evidence)

			rec, err := f.ledger.Get(ctx, "deadbeef")
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Nil(t, rec.Casino)
			assert.Nil(t, rec.Prize)
		})
	}
}

func TestValidator_WithinWindowBoundary(t *testing.T) {
	f := newFixture(t)
	f.logs.EXPECT().RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).
		Return(logLine("deadbeef casino: BetX", 48*time.Hour), nil)

	st := telegramTicket("chan-a", 1, "alice")
	d, err := f.validator.Validate(context.Background(), st, "alice", "alice#0001")
	require.NoError(t, err)
	assert.Equal(t, OutcomeChecklist, d.Outcome)
}

func TestValidator_CasinoSelectors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		outcome Outcome
		allowed []casino.ID
		flow    ticket.FlowKind
	}{
		{
			name:    "todos offers the whole registry",
			content: "deadbeef\ncasino: Todos",
			outcome: OutcomeSelectAll,
			allowed: []casino.ID{"RioAce", "BetX", "Lucky"},
			flow:    ticket.FlowCasinoSelection,
		},
		{
			name:    "list offers only resolvable casinos",
			content: "deadbeef\ncasino: rio ace; BetX ;Nowhere;",
			outcome: OutcomeSelectSubset,
			allowed: []casino.ID{"RioAce", "BetX"},
			flow:    ticket.FlowCasinoSelection,
		},
		{
			name:    "list with nothing resolvable",
			content: "deadbeef\ncasino: Foo;Bar",
			outcome: OutcomeNoValidCasino,
			flow:    ticket.FlowTelegramCode,
		},
		{
			name:    "unknown single casino",
			content: "deadbeef\ncasino: Foo",
			outcome: OutcomeCasinoNotConfigured,
			flow:    ticket.FlowTelegramCode,
		},
		{
			name:    "absent casino defaults to RioAce",
			content: "deadbeef prenda: 20",
			outcome: OutcomeChecklist,
			flow:    ticket.FlowCasinoChecklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.logs.EXPECT().RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).
				Return(logLine(tt.content, time.Hour), nil)

			st := telegramTicket("chan-a", 1, "alice")
			d, err := f.validator.Validate(context.Background(), st, "alice", "alice#0001")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.flow, st.Flow.Kind)
			if tt.allowed != nil {
				assert.Equal(t, tt.allowed, st.Flow.Allowed)
				assert.Len(t, d.Casinos, len(tt.allowed))
			}
		})
	}
}

func TestValidator_VerifiedFastPath(t *testing.T) {
	tests := []struct {
		name       string
		verified   bool
		hasRole    bool
		expectRole bool
		outcome    Outcome
		flow       ticket.FlowKind
	}{
		{name: "verified ticket with role", verified: true, hasRole: true, expectRole: true, outcome: OutcomeVerifiedFastPath, flow: ticket.FlowAwaitingLtc},
		{name: "verified ticket without role", verified: true, hasRole: false, expectRole: true, outcome: OutcomeChecklist, flow: ticket.FlowCasinoChecklist},
		{name: "unverified ticket", verified: false, outcome: OutcomeChecklist, flow: ticket.FlowCasinoChecklist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.logs.EXPECT().RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).
				Return(logLine("deadbeef casino: RioAce", time.Hour), nil)
			if tt.expectRole {
				f.directory.EXPECT().MemberHasRole(gomock.Any(), "alice", "role-rio").Return(tt.hasRole, nil)
			}

			st := telegramTicket("chan-a", 1, "alice")
			st.IsVerified = tt.verified
			d, err := f.validator.Validate(context.Background(), st, "alice", "alice#0001")
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.flow, st.Flow.Kind)
			assert.Equal(t, casino.ID("RioAce"), st.Casino)
		})
	}
}

func TestValidator_LostClaimRaceIsReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := redemptionMocks.NewMockLedger(ctrl)
	logs := platformMocks.NewMockLogSearcher(ctrl)
	directory := platformMocks.NewMockDirectory(ctrl)

	v := NewValidator(ledger, logs, directory,
		activitysvc.NewService(memory.NewActivityRepository(), zerolog.Nop()),
		testRegistry(t),
		Config{LogsChannelID: logsChannel, StaffChannelID: staffChannel},
		zerolog.Nop(),
	)
	v.SetClock(func() time.Time { return now })

	winner := redemption.NewCodeRecord("deadbeef", "chan-a", 1, "alice", "alice#0001", "BetX", "")
	ledger.EXPECT().Get(gomock.Any(), "deadbeef").Return(nil, nil)
	logs.EXPECT().RecentMessages(gomock.Any(), logsChannel, DefaultSearchLimit).
		Return(logLine("deadbeef casino: BetX", time.Hour), nil)
	ledger.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(winner, redemption.ErrCodeAlreadyClaimed)
	ledger.EXPECT().RecordDuplicate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *redemption.DuplicateAttempt) error {
			assert.Equal(t, "chan-b", a.ChannelID)
			return nil
		})
	directory.EXPECT().ChannelExists(gomock.Any(), "chan-a").Return(true, nil)

	st := telegramTicket("chan-b", 2, "bob")
	d, err := v.Validate(context.Background(), st, "bob", "bob#0002")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplay, d.Outcome)
	assert.Equal(t, winner, d.Original)
	assert.Equal(t, "chan-a", d.PauseChannelID)
	assert.True(t, st.AwaitingSupport)
}

func TestParseResolveActionID(t *testing.T) {
	cur, orig, ok := ParseResolveActionID(ResolveActionID("111", "222"))
	require.True(t, ok)
	assert.Equal(t, "111", cur)
	assert.Equal(t, "222", orig)

	_, _, ok = ParseResolveActionID("duplicate_resolved_only")
	assert.False(t, ok)
	_, _, ok = ParseResolveActionID("support_ticket")
	assert.False(t, ok)
}
