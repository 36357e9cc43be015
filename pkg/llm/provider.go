// Package llm defines the completion-provider abstraction used by the
// agent. Providers handle API communication with an LLM service and
// nothing else; conversation state lives with the caller.
package llm

import (
	"context"

	"github.com/entrhq/gurney/pkg/types"
)

// Provider is a synchronous completion client. One call corresponds to
// exactly one request against the backing service.
//
// Implementations must be safe for reuse across runs but are never
// called concurrently within a run: the loop issues one completion per
// step and blocks on it.
type Provider interface {
	// Complete sends the message sequence (system prompt first) and
	// returns the assistant's full reply. Errors are transport or API
	// failures and are fatal for the run that issued the call.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModel returns the model name requests are issued against.
	GetModel() string

	// GetBaseURL returns the API base URL in use.
	GetBaseURL() string
}
