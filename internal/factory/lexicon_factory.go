package factory

import (
	"github.com/mikey/phish-filter/internal/config"
	"github.com/mikey/phish-filter/internal/core"
	"go.uber.org/zap"
)

// LexiconFactory builds the lexicon and scorer from configuration
type LexiconFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLexiconFactory creates a new lexicon factory
func NewLexiconFactory(cfg *config.Config, logger *zap.Logger) *LexiconFactory {
	return &LexiconFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLexicon creates a lexicon from the built-in tables, replacing every table the
// configuration overrides with a non-empty list
func (f *LexiconFactory) CreateLexicon() *core.Lexicon {
	tables := core.DefaultTables()
	overrides := f.cfg.GetLexicon()

	override := func(name string, dst *[]string, src []string) {
		if len(src) == 0 {
			return
		}
		*dst = src
		f.logger.Info("Using configured lexicon table",
			zap.String("table", name),
			zap.Int("entries", len(src)))
	}

	override("urgency_words", &tables.UrgencyWords, overrides.UrgencyWords)
	override("suspicious_phrases", &tables.SuspiciousPhrases, overrides.SuspiciousPhrases)
	override("risky_tlds", &tables.RiskyTLDs, overrides.RiskyTLDs)
	override("risky_extensions", &tables.RiskyExtensions, overrides.RiskyExtensions)
	override("brands", &tables.Brands, overrides.Brands)

	return core.NewLexicon(tables)
}

// CreateScorer creates a scorer around lexicon using the configured long URL threshold
func (f *LexiconFactory) CreateScorer(lexicon *core.Lexicon) *core.Scorer {
	return core.NewScorer(lexicon, f.cfg.GetScoring().LongURLThreshold)
}
