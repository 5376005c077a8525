package core

import (
	"strings"
)

// trailingPunct is stripped from the end of every link token
const trailingPunct = `).,;:'">`

// ExtractLinks returns the http/https tokens found in text, in first-seen order and
// without duplicates. Tokens are whitespace delimited; the scheme prefix is case sensitive.
func ExtractLinks(text string) []string {
	links := []string{}
	if text == "" {
		return links
	}

	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		if !strings.HasPrefix(tok, "http://") && !strings.HasPrefix(tok, "https://") {
			continue
		}
		tok = strings.TrimRight(tok, trailingPunct)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		links = append(links, tok)
	}
	return links
}
