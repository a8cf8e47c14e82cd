package llm

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// NewProvider selects the provider for this process from opts. Without an
// API key the mock provider is returned; otherwise opts.Mode chooses between
// the SDK-mediated ("sdk", the default) and direct-HTTP ("http") backends.
func NewProvider(opts Options, preparer Preparer, logger zerolog.Logger) (Provider, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		logger.Info().Msg("no API key configured, using mock provider")
		return NewMockProvider(preparer, opts.MockDelay), nil
	}

	switch opts.Mode {
	case "", ModeSDK:
		return NewSDKProvider(opts, preparer, logger), nil
	case ModeHTTP:
		return NewHTTPProvider(opts, preparer, logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider mode: %s", opts.Mode)
	}
}
