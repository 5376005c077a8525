// Package mailparse turns raw internet messages into core.Message values.
package mailparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/mikey/phish-filter/internal/core"
	"github.com/mikey/phish-filter/internal/utils"
	"go.uber.org/zap"
)

// ErrMalformedMessage is returned when the message container cannot be parsed at all
var ErrMalformedMessage = errors.New("malformed message")

const ctTextPlain = "text/plain"

// Decoder parses messages with enmime
type Decoder struct {
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewDecoder creates a new decoder
func NewDecoder(textProcessor *utils.TextProcessor, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger)
	}
	return &Decoder{
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Decode parses a raw message
func (d *Decoder) Decode(raw []byte) (*core.Message, error) {
	return d.DecodeReader(bytes.NewReader(raw))
}

// DecodeReader parses a message read from r
func (d *Decoder) DecodeReader(r io.Reader) (*core.Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Root == nil {
		return nil, fmt.Errorf("%w: no root part", ErrMalformedMessage)
	}

	msg := &core.Message{
		Headers: core.ParsedHeaders{
			From:    env.GetHeader("From"),
			To:      env.GetHeader("To"),
			Subject: env.GetHeader("Subject"),
			Date:    env.GetHeader("Date"),
		},
		Attachments: []string{},
	}

	var bodyParts []string
	if isMultipart(env.Root) {
		walk(env.Root, func(p *enmime.Part) {
			if p.FileName != "" {
				msg.Attachments = append(msg.Attachments, p.FileName)
			}
			if p.ContentType != ctTextPlain {
				return
			}
			if text, ok := d.partText(p); ok {
				bodyParts = append(bodyParts, text)
			}
		})
	} else if text, ok := d.partText(env.Root); ok {
		bodyParts = append(bodyParts, text)
	}

	msg.Body = joinNonEmpty(bodyParts)

	d.logger.Debug("Decoded message",
		zap.Int("body_parts", len(bodyParts)),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Int("parse_errors", len(env.Errors)))

	return msg, nil
}

// partText returns the decoded text of a single part. A part that enmime could not
// decode reports false and contributes nothing.
func (d *Decoder) partText(p *enmime.Part) (string, bool) {
	for _, perr := range p.Errors {
		if perr != nil && perr.Severe {
			d.logger.Debug("Skipping undecodable part",
				zap.String("part_id", p.PartID),
				zap.String("content_type", p.ContentType),
				zap.String("error", perr.Error()))
			return "", false
		}
	}
	if len(p.Content) == 0 {
		return "", false
	}
	return d.textProcessor.SanitizeUTF8(string(p.Content)), true
}

func isMultipart(p *enmime.Part) bool {
	return strings.HasPrefix(p.ContentType, "multipart/")
}

// walk visits p and its descendants depth first, in document order
func walk(p *enmime.Part, visit func(*enmime.Part)) {
	for ; p != nil; p = p.NextSibling {
		visit(p)
		walk(p.FirstChild, visit)
	}
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
