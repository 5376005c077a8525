package config

import (
	"time"
)

// ServerConfig represents the configuration of the SMTP content filter
type ServerConfig struct {
	FilterType     string
	ListenAddress  string
	BlockPhish     bool
	Timeout        time.Duration
	ScoreHeader    string
	LevelHeader    string
	ReasonsHeader  string
	PostfixEnabled bool
	PostfixAddress string
	PostfixPort    int
	ModifySubject  bool
	SubjectPrefix  string
}

// ScoringConfig represents the tunables of the scorer
type ScoringConfig struct {
	BlockThreshold   int
	LongURLThreshold int
	MaxInputSize     int
}

// LexiconConfig represents operator overrides of the word lists
type LexiconConfig struct {
	UrgencyWords      []string
	SuspiciousPhrases []string
	RiskyTLDs         []string
	RiskyExtensions   []string
	Brands            []string
}

// GetServer returns the server configuration. An unparsable timeout falls back to 30s.
func (c *Config) GetServer() ServerConfig {
	timeout, err := c.GetDuration("server.timeout")
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	return ServerConfig{
		FilterType:     c.GetString("server.filter_type"),
		ListenAddress:  c.GetString("server.listen_address"),
		BlockPhish:     c.GetBool("server.block_phish"),
		Timeout:        timeout,
		ScoreHeader:    c.GetString("server.headers.score"),
		LevelHeader:    c.GetString("server.headers.level"),
		ReasonsHeader:  c.GetString("server.headers.reasons"),
		PostfixEnabled: c.GetBool("server.postfix.enabled"),
		PostfixAddress: c.GetString("server.postfix.address"),
		PostfixPort:    c.GetInt("server.postfix.port"),
		ModifySubject:  c.GetBool("server.modify_subject"),
		SubjectPrefix:  c.GetString("server.subject_prefix"),
	}
}

// GetScoring returns the scoring configuration
func (c *Config) GetScoring() ScoringConfig {
	return ScoringConfig{
		BlockThreshold:   c.GetInt("scoring.block_threshold"),
		LongURLThreshold: c.GetInt("scoring.long_url_threshold"),
		MaxInputSize:     c.GetInt("scoring.max_input_size"),
	}
}

// GetLexicon returns the lexicon overrides
func (c *Config) GetLexicon() LexiconConfig {
	return LexiconConfig{
		UrgencyWords:      c.GetStringSlice("lexicon.urgency_words"),
		SuspiciousPhrases: c.GetStringSlice("lexicon.suspicious_phrases"),
		RiskyTLDs:         c.GetStringSlice("lexicon.risky_tlds"),
		RiskyExtensions:   c.GetStringSlice("lexicon.risky_extensions"),
		Brands:            c.GetStringSlice("lexicon.brands"),
	}
}
