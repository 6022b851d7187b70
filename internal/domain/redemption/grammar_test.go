package redemption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogEntry(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LogEntry
	}{
		{
			name:    "prize and casino",
			content: "🎁 Código: deadbeef\nPrenda: 50\nCasino: BetX\n",
			want:    LogEntry{Prize: "50", Casino: "BetX"},
		},
		{
			name:    "spacing variants",
			content: "prenda :   120 casino:Rio Ace",
			want:    LogEntry{Prize: "120", Casino: "Rio Ace"},
		},
		{
			name:    "casino list",
			content: "Casino: RioAce;BetX\r\nother line",
			want:    LogEntry{Casino: "RioAce;BetX"},
		},
		{
			name:    "no casino falls back to default",
			content: "Código deadbeef prenda: 10",
			want:    LogEntry{Prize: "10", Casino: DefaultCasino},
		},
		{
			name:    "prize without digits is ignored",
			content: "prenda: grande\ncasino: todos",
			want:    LogEntry{Casino: "todos"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogEntry(tt.content))
		})
	}
}

func TestParseCasinoField(t *testing.T) {
	tests := []struct {
		field string
		want  Selector
	}{
		{"Todos", Selector{Kind: SelectAll}},
		{"todos os casinos", Selector{Kind: SelectAll}},
		{"RioAce;BetX", Selector{Kind: SelectList, Names: []string{"RioAce", "BetX"}}},
		{" RioAce ; ; BetX ;", Selector{Kind: SelectList, Names: []string{"RioAce", "BetX"}}},
		{";", Selector{Kind: SelectList, Names: []string{}}},
		{"RioAce", Selector{Kind: SelectSingle, Names: []string{"RioAce"}}},
		{"  Bet X  ", Selector{Kind: SelectSingle, Names: []string{"Bet X"}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCasinoField(tt.field), tt.field)
	}
}

func TestMentionsCode(t *testing.T) {
	assert.True(t, MentionsCode("Code DEADBEEF issued", "deadbeef"))
	assert.False(t, MentionsCode("Code deadbee issued", "deadbeef"))
}

func TestNewCodeRecord(t *testing.T) {
	rec := NewCodeRecord("deadbeef", "chan", 3, "u", "tag", "", "")
	assert.Nil(t, rec.Casino)
	assert.Nil(t, rec.Prize)
	assert.Equal(t, "N/A", rec.CasinoOrNA())

	rec = NewCodeRecord("deadbeef", "chan", 3, "u", "tag", "BetX", "50")
	assert.Equal(t, "BetX", rec.CasinoOrNA())
	assert.Equal(t, "50", *rec.Prize)
	assert.False(t, rec.UsedAt.IsZero())
}
