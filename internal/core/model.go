package core

import (
	"time"
)

// ParsedHeaders holds the header fields shown to the user. Absent headers are empty strings.
type ParsedHeaders struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// Message represents a decoded email message
type Message struct {
	Headers     ParsedHeaders
	Body        string
	Attachments []string
}

// ScoreResult represents the outcome of the heuristic scorer
type ScoreResult struct {
	Score   int
	Reasons []string
	Links   []string
}

// RiskLevel is the coarse band a score falls into
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Band boundaries used by the presentation adapters
const (
	MediumRiskScore = 30
	HighRiskScore   = 60
)

// LevelFor maps a score to its risk band
func LevelFor(score int) RiskLevel {
	switch {
	case score >= HighRiskScore:
		return RiskHigh
	case score >= MediumRiskScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Analysis represents a complete analysis handed to an adapter.
// Message is nil when the input was free text.
type Analysis struct {
	Result     ScoreResult
	Level      RiskLevel
	Message    *Message
	AnalyzedAt time.Time
}

// LinkReport is the per-link verdict of the domain analyzer
type LinkReport struct {
	Link   string
	Domain string
	Flags  []string
	Delta  int
}
