package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_AccumulatesAcrossMessages(t *testing.T) {
	rule := ChecklistRule([]Kind{KindImage, KindText})

	t.Run("image then text", func(t *testing.T) {
		first := Evaluate(rule, Seen{}, Observation{Attachments: 1})
		assert.False(t, first.Satisfied)
		assert.Equal(t, []Kind{KindText}, first.Missing)

		second := Evaluate(rule, first.Seen, Observation{Text: "ID 123456"})
		assert.True(t, second.Satisfied)
		assert.Empty(t, second.Missing)
		assert.Equal(t, "ID 123456", second.Seen.TextContent)
	})

	t.Run("text then image", func(t *testing.T) {
		first := Evaluate(rule, Seen{}, Observation{Text: "ID 123456"})
		assert.False(t, first.Satisfied)
		assert.Equal(t, []Kind{KindImage}, first.Missing)

		second := Evaluate(rule, first.Seen, Observation{Attachments: 2})
		assert.True(t, second.Satisfied)
	})

	t.Run("both in one message", func(t *testing.T) {
		res := Evaluate(rule, Seen{}, Observation{Text: "ID 123456", Attachments: 1})
		assert.True(t, res.Satisfied)
		assert.Equal(t, Seen{HasImage: true, HasText: true, TextContent: "ID 123456"}, res.Seen)
	})
}

func TestEvaluate_MonotonicSeen(t *testing.T) {
	rule := DualRule(MinAddressText)
	res := Evaluate(rule, Seen{}, Observation{Attachments: 1})
	require.True(t, res.Seen.HasImage)

	res = Evaluate(rule, res.Seen, Observation{Text: "too short"})
	assert.True(t, res.Seen.HasImage)
	assert.False(t, res.Seen.HasText)
	assert.Equal(t, []Kind{KindText}, res.Missing)
}

func TestEvaluate_InformationalStep(t *testing.T) {
	res := Evaluate(ChecklistRule(nil), Seen{}, Observation{})
	assert.True(t, res.Satisfied)
	assert.Empty(t, res.Missing)
}

func TestEvaluate_OnlyRecordsRequiredKinds(t *testing.T) {
	rule := ChecklistRule([]Kind{KindImage})
	res := Evaluate(rule, Seen{}, Observation{Text: "some long text", Attachments: 0})
	assert.False(t, res.Seen.HasText)
	assert.Equal(t, []Kind{KindImage}, res.Missing)
}

func TestEvaluate_MissingOrder(t *testing.T) {
	res := Evaluate(ChecklistRule([]Kind{KindText, KindImage}), Seen{}, Observation{})
	assert.Equal(t, []Kind{KindImage, KindText}, res.Missing)
}

func TestEvaluate_TextThresholds(t *testing.T) {
	tests := []struct {
		name string
		min  int
	}{
		{"checklist", MinChecklistText},
		{"description", MinDescriptionText},
		{"nick", MinNickText},
		{"address", MinAddressText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Rule{Required: []Kind{KindText}, MinText: tt.min}

			below := Evaluate(rule, Seen{}, Observation{Text: "  " + strings.Repeat("a", tt.min-1) + "  "})
			assert.False(t, below.Satisfied)

			at := Evaluate(rule, Seen{}, Observation{Text: "  " + strings.Repeat("a", tt.min) + "  "})
			assert.True(t, at.Satisfied)
			assert.Equal(t, strings.Repeat("a", tt.min), at.Accepted)
		})
	}
}

func TestEvaluate_CodeRule(t *testing.T) {
	rule := CodeRule()

	res := Evaluate(rule, Seen{}, Observation{Text: "o meu código é DEADBEEF", Attachments: 1})
	require.True(t, res.Satisfied)
	assert.Equal(t, "deadbeef", res.Accepted)

	res = Evaluate(rule, Seen{}, Observation{Text: "abc1234", Attachments: 1})
	assert.False(t, res.Satisfied)
	assert.Equal(t, []Kind{KindText}, res.Missing)
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"deadbeef", "deadbeef", true},
		{"code: 0A1B2C3D trailing", "0a1b2c3d", true},
		{"first 11112222 then 33334444", "11112222", true},
		{"1234567", "", false},
		{"ghijklmn", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractCode(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
