package filter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikey/phish-filter/internal/core"
	"go.uber.org/zap"
)

// CliFilter implements a command-line interface for phishing analysis
type CliFilter struct {
	service    *core.PhishService
	logger     *zap.Logger
	out        io.Writer
	verbose    bool
	jsonOutput bool
}

// NewCliFilter creates a new CLI filter writing to stdout
func NewCliFilter(service *core.PhishService, logger *zap.Logger, verbose bool, jsonOutput bool) (*CliFilter, error) {
	return NewCliFilterWithWriter(service, logger, os.Stdout, verbose, jsonOutput)
}

// NewCliFilterWithWriter creates a new CLI filter writing to out
func NewCliFilterWithWriter(service *core.PhishService, logger *zap.Logger, out io.Writer, verbose bool, jsonOutput bool) (*CliFilter, error) {
	if service == nil {
		return nil, fmt.Errorf("phish service is required")
	}
	return &CliFilter{
		service:    service,
		logger:     logger,
		out:        out,
		verbose:    verbose,
		jsonOutput: jsonOutput,
	}, nil
}

// ProcessEmail decodes and analyzes a raw message and prints the report
func (f *CliFilter) ProcessEmail(ctx context.Context, raw []byte) (*core.Analysis, error) {
	f.logger.Debug("Processing message", zap.Int("size", len(raw)))

	analysis, err := f.service.AnalyzeMessage(raw)
	if err != nil {
		f.logger.Error("Failed to analyze message", zap.Error(err))
		return nil, err
	}
	return analysis, f.render(analysis)
}

// ProcessText analyzes pasted text and prints the report
func (f *CliFilter) ProcessText(ctx context.Context, text string) (*core.Analysis, error) {
	f.logger.Debug("Processing text", zap.Int("size", len(text)))

	analysis := f.service.AnalyzeText(text)
	return analysis, f.render(analysis)
}

func (f *CliFilter) render(analysis *core.Analysis) error {
	if f.jsonOutput {
		return writeJSON(f.out, analysis)
	}
	return writeReport(f.out, analysis, f.verbose)
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
