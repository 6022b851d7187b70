package conversation

import (
	"strings"

	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
)

// Message keys returned in Result.MessageKey.
const (
	MsgAgeConfirmRequest     = "age_confirm_request"
	MsgInvalidResponse       = "invalid_response"
	MsgGiveawayTypes         = "giveaway_types"
	MsgWebsiteTypeRequest    = "website_type_request"
	MsgDescriptionRequest    = "description_request"
	MsgDescriptionTooShort   = "description_too_short"
	MsgDescriptionReceived   = "description_received"
	MsgQuestionNotification  = "question_notification"
	MsgBugNotification       = "bug_notification"
	MsgTwitchRequest         = "twitch_request"
	MsgTwitchMissing         = "twitch_missing"
	MsgNoRedeems             = "no_redeems"
	MsgRedeemList            = "redeem_list"
	MsgLtcMissing            = "verified_user_missing"
	MsgLtcComplete           = "verified_user_complete"
	MsgVerifiedSkip          = "verified_user_skip"
	MsgMissingRequirements   = "missing_requirements"
	MsgImageRequired         = "image_required"
	MsgChecklistCompleted    = "checklist_completed"
	MsgVIPCompleted          = "vip_completed"
	MsgVIPTypeNotConfigured  = "vip_type_not_configured"
	MsgTelegramRequest       = "telegram_request"
	MsgTelegramCodeMissing   = "telegram_code_missing"
	MsgDuplicateCode         = "duplicate_code"
	MsgCodeNotFound          = "code_not_found"
	MsgCodeExpired           = "code_expired"
	MsgCodeValidated         = "code_validated"
	MsgSpecificCasino        = "specific_casino"
	MsgCasinoSelection       = "casino_selection"
	MsgCasinoNotConfigured   = "casino_not_configured"
	MsgNoValidCasino         = "no_valid_casino"
	MsgChecklistNotAvailable = "checklist_not_configured"
	MsgTicketPaused          = "ticket_paused"
	MsgDuplicateResolved     = "duplicate_resolved"
	MsgRedeemSelected        = "redeem_selected"
	MsgRedeemNotification    = "redeem_notification"
	MsgRedeemCompleted       = "redeem_completed"
	MsgTicketClosed          = "ticket_closed"
)

var catalog = map[string]string{
	MsgAgeConfirmRequest:     "🔞 Para continuar confirma que tens mais de 18 anos escrevendo **Sim, eu confirmo**.",
	MsgInvalidResponse:       "❌ Resposta inválida. Escreve **Sim, eu confirmo** para continuar.",
	MsgGiveawayTypes:         "⭐ **Parabéns!** Escolha o tipo de giveaway:\n\n🎁 **Tipos Disponíveis:**\n• Telegram - Prêmios do bot\n• GTB - Giveaway tradicional\n• Promoções especiais em destaque",
	MsgWebsiteTypeRequest:    "🌐 Escolhe se queres **reportar um bug** ou **resgatar um redeem**.",
	MsgDescriptionRequest:    "📝 Descreve a tua questão com o máximo de detalhe possível.",
	MsgDescriptionTooShort:   "❌ A descrição é demasiado curta. Escreve pelo menos 10 caracteres.",
	MsgDescriptionReceived:   "✅ Descrição recebida! A nossa equipa vai responder em breve.",
	MsgQuestionNotification:  "📩 **Novo pedido ({category})**\n\n• Ticket: #{number}\n• Usuário: {user}\n• Canal: <#{channel}>\n\n**Descrição:**\n{description}",
	MsgBugNotification:       "🐛 **Novo bug reportado no website**\n\n• Ticket: #{number}\n• Usuário: {user}\n• Canal: <#{channel}>\n\n**Descrição:**\n{description}",
	MsgTwitchRequest:         "🎮 Envia o teu **nick da Twitch** em texto **e** um **print** do redeem.",
	MsgTwitchMissing:         "❌ Ainda falta enviar: {missing}",
	MsgNoRedeems:             "📭 Não encontrámos redeems pendentes para **{nick}**.",
	MsgRedeemList:            "🎁 Redeems pendentes de **{nick}**. Escolhe qual queres resgatar:",
	MsgLtcMissing:            "❌ Para finalizar envia: {missing}",
	MsgLtcComplete:           "✅ Depósito e endereço LTC recebidos! Aguarda o pagamento.",
	MsgVerifiedSkip:          "🛡️ Como já és verificado neste casino, só precisas de enviar o **print do depósito LTC** com QR visível **e** o **endereço LTC em texto**.",
	MsgMissingRequirements:   "❌ Ainda falta enviar: {missing}",
	MsgImageRequired:         "❌ Este passo precisa de uma **imagem**.",
	MsgChecklistCompleted:    "✅ Checklist concluída! Clica em **Finalizar** para enviar para aprovação.",
	MsgVIPCompleted:          "👑 Checklist VIP concluída! Clica em **Finalizar** para enviar para aprovação.",
	MsgVIPTypeNotConfigured:  "❌ Este tipo de VIP não está configurado.",
	MsgTelegramRequest:       "📱 Envia o **código** do bot do Telegram **e** um **screenshot** da mensagem.",
	MsgTelegramCodeMissing:   "❌ Ainda falta enviar: {missing}",
	MsgDuplicateCode:         "🚫 Este código já foi usado no ticket **#{originalTicket}** por **{originalUser}**.\n\nO ticket foi pausado e o suporte humano foi notificado.",
	MsgCodeNotFound:          "❌ Código não encontrado nos logs. Verifica se o código está correto.",
	MsgCodeExpired:           "⏰ Este código expirou. Os códigos são válidos por 48 horas.",
	MsgCodeValidated:         "✅ Código validado! Casino: **{casino}**",
	MsgSpecificCasino:        "✅ Código validado para **{casino}**!",
	MsgCasinoSelection:       "🎰 Escolha o casino para o qual deseja resgatar o prêmio:",
	MsgCasinoNotConfigured:   "❌ O casino **{casino}** não está configurado. Contacta o suporte.",
	MsgNoValidCasino:         "❌ Nenhum casino válido encontrado na lista.",
	MsgChecklistNotAvailable: "❌ Checklist não configurada para este casino.",
	MsgTicketPaused:          "⏸️ Este ticket está pausado para revisão. Aguarda o suporte humano.",
	MsgDuplicateResolved:     "✅ Revisão concluída. Os tickets foram retomados.",
	MsgRedeemSelected:        "✅ Redeem **{item}** selecionado! A equipa vai processar o teu pedido.",
	MsgRedeemNotification:    "🎁 **Novo redeem do website**\n\n• Ticket: #{number}\n• Usuário: {user}\n• Twitch: {nick}\n• Item: {item} ({cost} pontos)\n• Canal: <#{channel}>",
	MsgRedeemCompleted:       "✅ O teu redeem **{item}** foi concluído!",
	MsgTicketClosed:          "🔒 Ticket fechado.",
}

// Render returns the text of key with {placeholders} substituted from pairs.
func Render(key string, pairs ...string) string {
	text, ok := catalog[key]
	if !ok {
		return key
	}
	if len(pairs) == 0 {
		return text
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// labels names the evidence kinds of a flow in user-facing text.
type labels struct {
	image string
	text  string
}

var (
	checklistLabels = labels{image: "**imagem**", text: "**texto**"}
	ltcLabels       = labels{image: "**imagem do depósito com QR visível**", text: "**endereço LTC em texto**"}
	twitchLabels    = labels{image: "**imagem**", text: "**nick da Twitch**"}
	telegramLabels  = labels{image: "**screenshot**", text: "**código**"}
)

func (l labels) name(k evidence.Kind) string {
	if k == evidence.KindImage {
		return l.image
	}
	return l.text
}

func (l labels) names(kinds []evidence.Kind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, l.name(k))
	}
	return out
}
