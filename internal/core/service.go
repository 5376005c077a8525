package core

import (
	"fmt"
	"time"

	"github.com/mikey/phish-filter/internal/utils"
	"go.uber.org/zap"
)

// PhishService is the core service the presentation adapters call
type PhishService struct {
	scorer        *Scorer
	decoder       MessageDecoder
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	maxInputSize  int
}

// NewPhishService creates a new phishing analysis service
func NewPhishService(
	scorer *Scorer,
	decoder MessageDecoder,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	maxInputSize int,
) *PhishService {
	return &PhishService{
		scorer:        scorer,
		decoder:       decoder,
		textProcessor: textProcessor,
		logger:        logger,
		maxInputSize:  maxInputSize,
	}
}

// Scorer returns the scorer used by the service
func (s *PhishService) Scorer() *Scorer {
	return s.scorer
}

// AnalyzeText scores pasted free text. Attachment and brand checks are not applied.
func (s *PhishService) AnalyzeText(text string) *Analysis {
	text = s.textProcessor.ProcessText(text, s.maxInputSize)
	result := s.scorer.Score(text)

	s.logger.Debug("Analyzed text",
		zap.Int("score", result.Score),
		zap.Int("links", len(result.Links)),
		zap.Int("reasons", len(result.Reasons)))

	return &Analysis{
		Result:     result,
		Level:      LevelFor(result.Score),
		AnalyzedAt: time.Now(),
	}
}

// AnalyzeMessage decodes a raw message, scores its body and applies the attachment and
// brand checks. Only a decode failure of the whole message is returned as an error.
func (s *PhishService) AnalyzeMessage(raw []byte) (*Analysis, error) {
	msg, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	msg.Body = s.textProcessor.TruncateText(msg.Body, s.maxInputSize)
	result := s.scorer.ApplyMessageChecks(s.scorer.Score(msg.Body), msg)

	s.logger.Debug("Analyzed message",
		zap.String("from", msg.Headers.From),
		zap.String("subject", msg.Headers.Subject),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Int("score", result.Score))

	return &Analysis{
		Result:     result,
		Level:      LevelFor(result.Score),
		Message:    msg,
		AnalyzedAt: time.Now(),
	}, nil
}
