package core

import (
	"strings"
)

const (
	urgencyPoints    = 15
	phrasePoints     = 15
	linkVolumePoints = 5
	linkVolumeCount  = 4

	maxScore = 100
)

// Scorer computes heuristic phishing scores. It holds no mutable state.
type Scorer struct {
	lexicon          *Lexicon
	longURLThreshold int
}

// NewScorer creates a new scorer. A non-positive threshold selects DefaultLongURLThreshold.
func NewScorer(lexicon *Lexicon, longURLThreshold int) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	if longURLThreshold <= 0 {
		longURLThreshold = DefaultLongURLThreshold
	}
	return &Scorer{
		lexicon:          lexicon,
		longURLThreshold: longURLThreshold,
	}
}

// Lexicon returns the lexicon the scorer was built with
func (s *Scorer) Lexicon() *Lexicon {
	return s.lexicon
}

// InspectLink runs the domain heuristics against a single link
func (s *Scorer) InspectLink(link string) LinkReport {
	domain := DomainOf(link)
	report := LinkReport{Link: link, Domain: domain}

	if IsIPLiteral(domain) {
		report.Flags = append(report.Flags, FlagRawIP)
		report.Delta += rawIPPoints
	}
	if UsesPunycode(domain) {
		report.Flags = append(report.Flags, FlagPunycode)
		report.Delta += punycodePoints
	}
	if s.lexicon.HasRiskyTLD(domain) {
		report.Flags = append(report.Flags, FlagRiskyTLD)
		report.Delta += riskyTLDPoints
	}
	if IsPlainHTTP(link) {
		report.Flags = append(report.Flags, FlagPlainHTTP)
		report.Delta += plainHTTPPoints
	}
	if IsOverlong(link, s.longURLThreshold) {
		report.Flags = append(report.Flags, FlagLongURL)
		report.Delta += longURLPoints
	}

	return report
}

// Score analyzes text and returns its score, reasons and links.
// Reasons are appended in a fixed order: urgency, phrases, then one entry per flagged link.
func (s *Scorer) Score(text string) ScoreResult {
	result := ScoreResult{Reasons: []string{}}
	score := 0

	if hits := s.lexicon.UrgencyHits(text); len(hits) > 0 {
		result.Reasons = append(result.Reasons, "Urgency language: "+strings.Join(hits, ", "))
		score += urgencyPoints
	}

	if hits := s.lexicon.PhraseHits(text); len(hits) > 0 {
		result.Reasons = append(result.Reasons, "Suspicious phrases: "+strings.Join(hits, ", "))
		score += phrasePoints
	}

	result.Links = ExtractLinks(text)
	if len(result.Links) >= linkVolumeCount {
		// Silent signal, no reason is emitted
		score += linkVolumePoints
	}

	for _, link := range result.Links {
		report := s.InspectLink(link)
		if len(report.Flags) == 0 {
			continue
		}
		result.Reasons = append(result.Reasons, link+" → "+strings.Join(report.Flags, ", "))
		score += report.Delta
	}

	result.Score = clamp(score)
	return result
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
