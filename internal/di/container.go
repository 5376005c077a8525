package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-filter/internal/config"
	"github.com/mikey/phish-filter/internal/core"
	"github.com/mikey/phish-filter/internal/factory"
	"github.com/mikey/phish-filter/internal/logging"
	"github.com/mikey/phish-filter/internal/mailparse"
	"github.com/mikey/phish-filter/internal/ports"
	"github.com/mikey/phish-filter/internal/utils"
	"github.com/mikey/phish-filter/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container for the
// SMTP content filter daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideAnalysis registers everything downstream of the configuration and the logger
func provideAnalysis(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewLexiconFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register lexicon and scorer
	if err := container.Provide(func(f *factory.LexiconFactory) *core.Lexicon {
		return f.CreateLexicon()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.LexiconFactory, lexicon *core.Lexicon) *core.Scorer {
		return f.CreateScorer(lexicon)
	}); err != nil {
		return err
	}

	// Register message decoder
	if err := container.Provide(func(tp *utils.TextProcessor, logger *zap.Logger) core.MessageDecoder {
		return mailparse.NewDecoder(tp, logger.Named("mailparse"))
	}); err != nil {
		return err
	}

	// Register trusted sender domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetStringSlice("trusted.domains"), logger)
	}); err != nil {
		return err
	}

	// Register phishing service
	if err := container.Provide(func(
		scorer *core.Scorer,
		decoder core.MessageDecoder,
		tp *utils.TextProcessor,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.PhishService {
		return core.NewPhishService(scorer, decoder, tp, logger, cfg.GetScoring().MaxInputSize)
	}); err != nil {
		return err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return err
	}

	return nil
}
