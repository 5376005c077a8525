package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to a trusted domain. Trusted senders are
// still scored and tagged but never rejected by the content filter.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized[domain] = struct{}{}
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized trusted sender domains", zap.Int("count", len(normalized)))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsWhitelisted checks if the sender's domain is trusted. from may be a bare address
// or a full From header value.
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := SenderDomain(from)
	if domain == "" {
		return false
	}

	if _, ok := c.domains[domain]; ok {
		c.logger.Debug("Sender domain is trusted",
			zap.String("domain", domain),
			zap.String("from", from))
		return true
	}
	return false
}

// SenderDomain extracts the lowercased domain of an address, or "" when there is none
func SenderDomain(from string) string {
	addr := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(addr); err == nil {
		addr = parsed.Address
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.Trim(addr[at+1:], "<> "))
}
