package llm

import (
	"errors"
	"fmt"
)

// ErrNoChoices is returned when a backend answers without any choice.
var ErrNoChoices = errors.New("no response from provider")

// ProviderError reports an unrecoverable backend failure during completion.
type ProviderError struct {
	Provider   string
	StatusCode int    // HTTP status, zero for transport failures
	Body       string // raw error body returned by the backend, if any
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s API error: status %d: %v", e.Provider, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API error: status %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s request failed", e.Provider)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }
