package core

import (
	"strings"
)

const (
	riskyAttachmentPoints = 20
	brandMismatchPoints   = 15
)

// RiskyAttachments returns the filenames whose extension is in the risky extension table.
// The extension is everything from the last "."; names without a dot never match.
func (l *Lexicon) RiskyAttachments(names []string) []string {
	var risky []string
	for _, name := range names {
		dot := strings.LastIndex(name, ".")
		if dot < 0 {
			continue
		}
		if l.IsRiskyExtension(strings.ToLower(name[dot:])) {
			risky = append(risky, name)
		}
	}
	return risky
}

// BrandMismatch returns the brands mentioned in text that appear in none of the link
// domains. With no links there is nothing to compare against and the result is empty.
func (l *Lexicon) BrandMismatch(text string, links []string) []string {
	if len(links) == 0 {
		return nil
	}
	lowered := strings.ToLower(text)

	domains := make([]string, 0, len(links))
	for _, link := range links {
		domains = append(domains, DomainOf(link))
	}
	domainText := strings.Join(domains, " ")

	var mismatches []string
	for _, brand := range l.brands {
		if !strings.Contains(lowered, brand) {
			continue
		}
		token := strings.ReplaceAll(brand, " ", "")
		if !strings.Contains(domainText, token) {
			mismatches = append(mismatches, brand)
		}
	}
	return mismatches
}

// ApplyMessageChecks adds the attachment and brand checks for a decoded message to an
// existing result. The text scorer is not run again.
func (s *Scorer) ApplyMessageChecks(result ScoreResult, msg *Message) ScoreResult {
	if msg == nil {
		return result
	}
	out := ScoreResult{
		Score:   result.Score,
		Reasons: append([]string{}, result.Reasons...),
		Links:   result.Links,
	}

	if risky := s.lexicon.RiskyAttachments(msg.Attachments); len(risky) > 0 {
		out.Reasons = append(out.Reasons, "Risky attachment(s): "+strings.Join(risky, ", "))
		out.Score = clamp(out.Score + riskyAttachmentPoints)
	}

	if mm := s.lexicon.BrandMismatch(msg.Body, result.Links); len(mm) > 0 {
		out.Reasons = append(out.Reasons, "Brand mentioned but not in link domains: "+strings.Join(mm, ", "))
		out.Score = clamp(out.Score + brandMismatchPoints)
	}

	return out
}
