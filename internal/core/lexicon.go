package core

import (
	"strings"
)

// LexiconTables is the raw word lists a Lexicon is built from
type LexiconTables struct {
	UrgencyWords      []string
	SuspiciousPhrases []string
	RiskyTLDs         []string
	RiskyExtensions   []string
	Brands            []string
}

// DefaultTables returns the built-in word lists
func DefaultTables() LexiconTables {
	return LexiconTables{
		UrgencyWords: []string{
			"urgent", "verify", "password", "login", "invoice", "overdue",
			"suspend", "immediately", "now", "action required", "confirm", "security alert",
		},
		SuspiciousPhrases: []string{
			"verify your account", "confirm your account", "unusual activity",
			"account locked", "account suspended", "update payment",
			"tax refund", "delivery issue", "gift card", "reset your account",
		},
		RiskyTLDs: []string{
			"zip", "top", "xyz", "click", "work", "gq", "tk", "ml", "cf", "pw",
			"link", "quest", "cam", "fit", "review", "party", "download", "loan",
			"club", "kim", "mom",
		},
		RiskyExtensions: []string{
			".html", ".htm", ".exe", ".scr", ".bat", ".cmd", ".js", ".vbs",
			".zip", ".rar", ".7z", ".iso", ".img",
		},
		Brands: []string{
			"microsoft", "google", "outlook", "gmail", "apple", "amazon",
			"paypal", "anz", "asb", "westpac", "xero", "dhl", "nz post",
		},
	}
}

// Lexicon is the immutable set of word lists used by the heuristics.
// It is never modified after NewLexicon returns and may be shared freely.
type Lexicon struct {
	urgencyWords      []string
	suspiciousPhrases []string
	riskyTLDs         map[string]struct{}
	riskyExtensions   map[string]struct{}
	brands            []string
}

// NewLexicon creates a lexicon from the given tables. Entries are lowercased and
// trimmed; blank entries are dropped.
func NewLexicon(tables LexiconTables) *Lexicon {
	return &Lexicon{
		urgencyWords:      normalize(tables.UrgencyWords),
		suspiciousPhrases: normalize(tables.SuspiciousPhrases),
		riskyTLDs:         toSet(normalize(tables.RiskyTLDs)),
		riskyExtensions:   toSet(normalize(tables.RiskyExtensions)),
		brands:            normalize(tables.Brands),
	}
}

// DefaultLexicon creates a lexicon from DefaultTables
func DefaultLexicon() *Lexicon {
	return NewLexicon(DefaultTables())
}

// UrgencyHits returns the urgency words contained in text, in table order
func (l *Lexicon) UrgencyHits(text string) []string {
	return findIn(strings.ToLower(text), l.urgencyWords)
}

// PhraseHits returns the suspicious phrases contained in text, in table order
func (l *Lexicon) PhraseHits(text string) []string {
	return findIn(strings.ToLower(text), l.suspiciousPhrases)
}

// IsRiskyTLD reports whether tld is in the risky TLD table
func (l *Lexicon) IsRiskyTLD(tld string) bool {
	_, ok := l.riskyTLDs[tld]
	return ok
}

// IsRiskyExtension reports whether ext (with its leading dot) is in the risky extension table
func (l *Lexicon) IsRiskyExtension(ext string) bool {
	_, ok := l.riskyExtensions[ext]
	return ok
}

// Brands returns a copy of the brand table
func (l *Lexicon) Brands() []string {
	return append([]string(nil), l.brands...)
}

func findIn(lowered string, table []string) []string {
	var hits []string
	if lowered == "" {
		return hits
	}
	for _, w := range table {
		if strings.Contains(lowered, w) {
			hits = append(hits, w)
		}
	}
	return hits
}

func normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func toSet(entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	return set
}
