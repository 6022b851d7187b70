package evidence

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind is an input modality a step can require.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindImage || k == KindText
}

// Minimum trimmed text lengths per flow.
const (
	MinChecklistText   = 5
	MinDescriptionText = 10
	MinNickText        = 3
	MinAddressText     = 25
	CodeLength         = 8
)

var codePattern = regexp.MustCompile(`(?i)[a-f0-9]{8}`)

// Seen records which kinds have been observed so far for the current step.
type Seen struct {
	HasImage    bool   `json:"hasImage"`
	HasText     bool   `json:"hasText"`
	TextContent string `json:"textContent,omitempty"`
}

// Observation is what a single incoming message carries.
type Observation struct {
	Text        string
	Attachments int
}

// Matcher extracts the accepted text value from a message. It returns false
// when the message text does not qualify as text evidence.
type Matcher func(text string) (string, bool)

// Rule describes what a step requires.
type Rule struct {
	Required []Kind
	// MinText is the minimum trimmed rune count for text evidence. Ignored when Match is set.
	MinText int
	Match   Matcher
}

// Result is the outcome of evaluating one message against a rule.
type Result struct {
	Seen      Seen
	Satisfied bool
	Missing   []Kind
	// Accepted holds the text taken from this message, empty if none qualified.
	Accepted string
}

// ChecklistRule builds the rule used by checklist and VIP steps.
func ChecklistRule(required []Kind) Rule {
	return Rule{Required: required, MinText: MinChecklistText}
}

// DualRule builds an image+text rule with the given text threshold.
func DualRule(minText int) Rule {
	return Rule{Required: []Kind{KindImage, KindText}, MinText: minText}
}

// CodeRule requires a screenshot and an 8 hex digit code token.
func CodeRule() Rule {
	return Rule{Required: []Kind{KindImage, KindText}, Match: ExtractCode}
}

// ExtractCode returns the first 8 hex digit token in text, lowercased.
func ExtractCode(text string) (string, bool) {
	m := codePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// Requires reports whether the rule needs kind k.
func (r Rule) Requires(k Kind) bool {
	for _, req := range r.Required {
		if req == k {
			return true
		}
	}
	return false
}

// IsInformational reports whether the rule needs no input at all.
func (r Rule) IsInformational() bool {
	return len(r.Required) == 0
}

func (r Rule) acceptText(text string) (string, bool) {
	if r.Match != nil {
		return r.Match(text)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < r.MinText {
		return "", false
	}
	return trimmed, true
}

// Evaluate folds obs into seen and checks whether every required kind is present.
// Only kinds the rule requires are recorded, and a recorded kind is never cleared.
func Evaluate(rule Rule, seen Seen, obs Observation) Result {
	if rule.IsInformational() {
		return Result{Seen: seen, Satisfied: true}
	}

	res := Result{Seen: seen}
	if rule.Requires(KindImage) && obs.Attachments > 0 {
		res.Seen.HasImage = true
	}
	if rule.Requires(KindText) {
		if text, ok := rule.acceptText(obs.Text); ok {
			res.Seen.HasText = true
			res.Seen.TextContent = text
			res.Accepted = text
		}
	}

	res.Missing = Missing(rule, res.Seen)
	res.Satisfied = len(res.Missing) == 0
	return res
}

// Missing lists the required kinds not yet seen, image before text.
func Missing(rule Rule, seen Seen) []Kind {
	var missing []Kind
	if rule.Requires(KindImage) && !seen.HasImage {
		missing = append(missing, KindImage)
	}
	if rule.Requires(KindText) && !seen.HasText {
		missing = append(missing, KindText)
	}
	return missing
}
