package redemption

import (
	"regexp"
	"strings"
)

// DefaultCasino is used when a log entry carries no casino field.
const DefaultCasino = "RioAce"

var (
	prizePattern   = regexp.MustCompile(`(?i)prenda\s*:\s*(\d+)`)
	casinoPattern  = regexp.MustCompile(`(?i)casino\s*:\s*([^\n\r]+)`)
	allCasinosWord = regexp.MustCompile(`(?i)\btodos\b`)
)

// LogEntry is what a giveaway log message says about a code.
//
// Grammar, matched case-insensitively anywhere in the message:
//
//	prize  = "prenda" ws* ":" ws* digits
//	casino = "casino" ws* ":" ws* rest-of-line
type LogEntry struct {
	Prize  string
	Casino string
}

// ParseLogEntry extracts prize and casino from a log message. A missing casino
// field yields DefaultCasino.
func ParseLogEntry(content string) LogEntry {
	var e LogEntry
	if m := prizePattern.FindStringSubmatch(content); m != nil {
		e.Prize = m[1]
	}
	if m := casinoPattern.FindStringSubmatch(content); m != nil {
		e.Casino = strings.TrimSpace(m[1])
	}
	if e.Casino == "" {
		e.Casino = DefaultCasino
	}
	return e
}

// SelectorKind classifies a casino field.
type SelectorKind int

const (
	// SelectAll means the winner may pick any configured casino.
	SelectAll SelectorKind = iota
	// SelectList is a ";"-separated list of casino names.
	SelectList
	// SelectSingle names exactly one casino.
	SelectSingle
)

// Selector is a parsed casino field.
type Selector struct {
	Kind  SelectorKind
	Names []string
}

// ParseCasinoField classifies a casino field. The word "todos" selects every
// casino; a field containing ";" is split, trimmed and filtered to non-empty
// names; anything else is a single name.
func ParseCasinoField(field string) Selector {
	field = strings.TrimSpace(field)
	if allCasinosWord.MatchString(field) {
		return Selector{Kind: SelectAll}
	}
	if strings.Contains(field, ";") {
		return Selector{Kind: SelectList, Names: SplitCasinoList(field)}
	}
	return Selector{Kind: SelectSingle, Names: []string{field}}
}

// SplitCasinoList splits a ";"-separated list into trimmed non-empty names.
func SplitCasinoList(field string) []string {
	parts := strings.Split(field, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MentionsCode reports whether content contains code, ignoring case.
func MentionsCode(content, code string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(code))
}
