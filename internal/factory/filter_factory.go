package factory

import (
	"fmt"

	"github.com/mikey/phish-filter/internal/adapters/filter"
	"github.com/mikey/phish-filter/internal/config"
	"github.com/mikey/phish-filter/internal/core"
	"github.com/mikey/phish-filter/internal/ports"
	"github.com/mikey/phish-filter/internal/whitelist"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg          *config.Config
	logger       *zap.Logger
	phishService *core.PhishService
	trusted      *whitelist.Checker
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, phishService *core.PhishService, trusted *whitelist.Checker) *FilterFactory {
	return &FilterFactory{
		cfg:          cfg,
		logger:       logger,
		phishService: phishService,
		trusted:      trusted,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	server := f.cfg.GetServer()

	switch server.FilterType {
	case "postfix":
		return filter.NewPostfixFilter(
			f.phishService,
			f.trusted,
			f.logger,
			server,
			f.cfg.GetScoring().BlockThreshold,
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.phishService,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
			f.cfg.GetBool("cli.json"),
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", server.FilterType)
	}
}
