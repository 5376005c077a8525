package core

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultLongURLThreshold is the rune length at which a link counts as very long
const DefaultLongURLThreshold = 110

// Per-link flag labels and their score increments
const (
	FlagRawIP     = "uses raw IP"
	FlagPunycode  = "punycode (look-alike risk)"
	FlagRiskyTLD  = "risky TLD"
	FlagPlainHTTP = "not HTTPS"
	FlagLongURL   = "very long URL"

	rawIPPoints     = 25
	punycodePoints  = 25
	riskyTLDPoints  = 15
	plainHTTPPoints = 10
	longURLPoints   = 8
)

// DomainOf returns the lowercased host part of a link: the text after "://" and before
// the first "/". The result is not validated.
func DomainOf(link string) string {
	s := link
	if _, rest, ok := strings.Cut(s, "://"); ok {
		s = rest
	}
	if host, _, ok := strings.Cut(s, "/"); ok {
		s = host
	}
	return strings.ToLower(s)
}

// IsIPLiteral reports whether domain is a dotted-quad IPv4 address
func IsIPLiteral(domain string) bool {
	parts := strings.Split(domain, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// UsesPunycode reports whether domain contains an IDNA "xn--" label
func UsesPunycode(domain string) bool {
	return strings.Contains(domain, "xn--")
}

// HasRiskyTLD reports whether the last label of domain is a risky TLD
func (l *Lexicon) HasRiskyTLD(domain string) bool {
	i := strings.LastIndex(domain, ".")
	if i < 0 {
		return false
	}
	return l.IsRiskyTLD(domain[i+1:])
}

// IsPlainHTTP reports whether link uses the unencrypted http scheme
func IsPlainHTTP(link string) bool {
	return strings.HasPrefix(strings.ToLower(link), "http://")
}

// IsOverlong reports whether link has at least threshold characters
func IsOverlong(link string, threshold int) bool {
	return utf8.RuneCountInString(link) >= threshold
}
