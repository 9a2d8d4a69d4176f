// Package pipeline holds the error taxonomy shared between the pipeline
// stages and the orchestrator that classifies their failures.
package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel markers for stage failure classification. Adapters wrap their
// errors with one of these so the orchestrator can match with errors.Is.
var (
	ErrParse       = errors.New("parse error")
	ErrRender      = errors.New("render error")
	ErrPersistence = errors.New("persistence error")
)

// FetchKind classifies transport-level fetch failures.
type FetchKind string

const (
	FetchTimeout     FetchKind = "timeout"
	FetchUnreachable FetchKind = "unreachable"
	FetchTransport   FetchKind = "transport"
	FetchBadStatus   FetchKind = "bad_status"
)

// FetchError is the typed failure returned by the source fetcher. Every kind
// is fatal to the run: with no content there is nothing to process.
type FetchError struct {
	Kind       FetchKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchBadStatus:
		return fmt.Sprintf("fetch feed: unexpected status %d", e.StatusCode)
	default:
		return fmt.Sprintf("fetch feed: %s: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Wrap tags err with the given marker while keeping the original chain intact.
func Wrap(marker error, operation string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", marker, operation)
	}
	return fmt.Errorf("%w: %s: %w", marker, operation, err)
}
