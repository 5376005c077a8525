package ports

import (
	"context"

	"github.com/mikey/phish-filter/internal/core"
)

// EmailFilter defines the interface for the presentation adapters around the scorer
type EmailFilter interface {
	// ProcessEmail analyzes a raw message and presents the result
	ProcessEmail(ctx context.Context, raw []byte) (*core.Analysis, error)

	// ProcessText analyzes pasted free text and presents the result
	ProcessText(ctx context.Context, text string) (*core.Analysis, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
