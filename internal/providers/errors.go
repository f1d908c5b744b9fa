package providers

import (
	"errors"
	"fmt"
)

// ErrGameNotFound indicates the upstream has no document for the game id.
var ErrGameNotFound = errors.New("game not found")

// UpstreamError captures a transport or decoding failure from a provider.
// These are transient: the next scheduled poll retries naturally.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Provider, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
