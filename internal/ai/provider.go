// Package ai provides the generative-text backends and the failover
// chain that turns a serialized user context into raw model output.
package ai

import "context"

// EmptyObject is what the chain returns when every backend fails.
// Callers parse it into empty categories rather than treating it as an
// error.
const EmptyObject = "{}"

// Provider is one configured generative-text backend.
type Provider interface {
	// Name returns the backend name for logging.
	Name() string

	// Generate turns a prompt plus system instruction into raw text.
	Generate(ctx context.Context, prompt, system string) (string, error)
}
