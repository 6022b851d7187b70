package casino

import "github.com/ticket-hub/ticket-hub/internal/domain/evidence"

// VIPType selects a VIP checklist.
type VIPType string

const (
	VIPSemanal     VIPType = "semanal"
	VIPLeaderboard VIPType = "leaderboard"
)

var (
	imageAndText = []evidence.Kind{evidence.KindImage, evidence.KindText}
	imageOnly    = []evidence.Kind{evidence.KindImage}
)

var vipChecklists = map[VIPType][]ChecklistStep{
	VIPSemanal: {
		{Description: "📱 Envia **print do perfil** com ID visível **e** o **ID em texto**", Type: imageAndText, TextLabel: "ID em texto", Captures: CaptureVIPID},
		{Description: "💰 Envia **prints dos depósitos**", Type: imageOnly},
		{Description: "💸 Envia **prints dos levantamentos**", Type: imageOnly},
		{Description: "🏦 Envia **prints dos cofres**", Type: imageOnly},
		{Description: "📥 Envia **print do depósito LTC** com QR visível **e** o **endereço LTC em texto**", Type: imageAndText, TextLabel: "endereço LTC em texto", Captures: CaptureLtcAddress},
	},
	VIPLeaderboard: {
		{Description: "📱 Envia **print da conta** com ID visível **e** o **ID em texto**", Type: imageAndText, TextLabel: "ID em texto", Captures: CaptureVIPID},
		{Description: "📥 Envia **print do depósito LTC** com QR visível **e** o **endereço LTC em texto**", Type: imageAndText, TextLabel: "endereço LTC em texto", Captures: CaptureLtcAddress},
	},
}

// VIPChecklist returns the built-in checklist for a VIP type.
func VIPChecklist(t VIPType) ([]ChecklistStep, bool) {
	steps, ok := vipChecklists[t]
	return steps, ok
}
