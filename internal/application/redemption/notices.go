package redemption

import (
	"fmt"
	"strings"

	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

const (
	NoticeTicketPaused   = "ticket_paused_for_review"
	NoticeDuplicateAlert = "duplicate_code_alert"
)

// ResolveActionID is the staff action that resumes both tickets of a replay.
func ResolveActionID(currentChannelID, originalChannelID string) string {
	return fmt.Sprintf("duplicate_resolved_%s_%s", currentChannelID, originalChannelID)
}

// ParseResolveActionID splits a resolve action id into its channel ids.
func ParseResolveActionID(id string) (current, original string, ok bool) {
	rest, found := strings.CutPrefix(id, "duplicate_resolved_")
	if !found {
		return "", "", false
	}
	current, original, ok = strings.Cut(rest, "_")
	if !ok || current == "" || original == "" {
		return "", "", false
	}
	return current, original, true
}

// OriginalPausedNotice tells the first owner of a replayed code that their
// ticket is on hold.
func OriginalPausedNotice(channelID, code string) platform.Notice {
	return platform.Notice{
		ChannelID: channelID,
		Key:       NoticeTicketPaused,
		Text: strings.Join([]string{
			"⚠️ **Ticket pausado para revisão**",
			"",
			fmt.Sprintf("O código `%s` foi usado novamente em outro ticket.", code),
			"",
			"🛡️ **Suporte humano foi notificado**",
			"Aguarde enquanto a nossa equipa verifica a situação.",
		}, "\n"),
		Actions: []platform.Action{platform.ActionSupport, platform.ActionCloseTicket},
	}
}

func duplicateStaffAlert(staffChannelID, code string, original *redemption.CodeRecord, st *ticket.State, userTag string, originalOpen bool) platform.Notice {
	text := strings.Join([]string{
		"**🚨 CÓDIGO TELEGRAM DUPLICADO DETECTADO**",
		"",
		fmt.Sprintf("🔴 **Código:** `%s`", code),
		"",
		"📋 **Uso Original:**",
		fmt.Sprintf("• Ticket: #%d", original.TicketNumber),
		fmt.Sprintf("• Usuário: %s", original.UserTag),
		fmt.Sprintf("• Casino: %s", original.CasinoOrNA()),
		fmt.Sprintf("• Data: %s", original.UsedAt.Format("02/01/2006, 15:04:05")),
		"",
		"🆕 **Tentativa Atual:**",
		fmt.Sprintf("• Ticket: #%d", st.TicketNumber),
		fmt.Sprintf("• Usuário: %s", userTag),
		fmt.Sprintf("• Canal: <#%s>", st.ChannelID),
		"",
		"⚠️ **AMBOS os tickets foram pausados para revisão manual**",
	}, "\n")

	var actions []platform.Action
	if originalOpen {
		actions = append(actions, platform.Action{
			Label:     fmt.Sprintf("Ticket Original #%d", original.TicketNumber),
			Emoji:     "📋",
			Style:     platform.StyleLink,
			ChannelID: original.TicketChannelID,
		})
	}
	actions = append(actions,
		platform.Action{
			Label:     fmt.Sprintf("Ticket Atual #%d", st.TicketNumber),
			Emoji:     "🆕",
			Style:     platform.StyleLink,
			ChannelID: st.ChannelID,
		},
		platform.Action{
			ID:    ResolveActionID(st.ChannelID, original.TicketChannelID),
			Label: "Marcar como Resolvido",
			Emoji: "✅",
			Style: platform.StyleSuccess,
		},
	)

	return platform.Notice{
		ChannelID: staffChannelID,
		Key:       NoticeDuplicateAlert,
		Title:     "Código Telegram Duplicado",
		Text:      text,
		Actions:   actions,
	}
}
