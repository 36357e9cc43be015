// Package agent owns the conversation with the language model: it
// builds the per-step user turn from a page observation, issues one
// completion request per decision, and extracts a structured action
// from the model's free-form reply.
package agent

import (
	"context"
	"fmt"

	"github.com/entrhq/gurney/pkg/llm"
	"github.com/entrhq/gurney/pkg/logging"
	"github.com/entrhq/gurney/pkg/types"
)

const (
	// DefaultMaxSnapshotChars caps the accessibility snapshot embedded in
	// a user turn. Head content is kept: elements nearer the page top are
	// assumed higher priority.
	DefaultMaxSnapshotChars = 48000

	truncationMarker = "\n…[truncated]"
)

// Observation is the view of page state handed to the model each step.
type Observation struct {
	URL      string
	Snapshot string
}

// Agent drives the model conversation for a single run. History is
// append-only: two turns per Decide call (user, assistant) plus one
// user turn per reported failure. The fixed system prompt is prepended
// per request and never stored.
//
// Agent is not safe for concurrent use; each run owns its own Agent.
type Agent struct {
	provider         llm.Provider
	goal             string
	history          []*types.Message
	log              *logging.Logger
	tokens           *tokenCounter
	maxSnapshotChars int
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxSnapshotChars overrides the snapshot truncation cap.
func WithMaxSnapshotChars(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSnapshotChars = n
		}
	}
}

// WithLogger attaches a logger for per-step diagnostics.
func WithLogger(log *logging.Logger) Option {
	return func(a *Agent) {
		a.log = log
	}
}

// New creates an agent working toward the given goal.
func New(provider llm.Provider, goal string, opts ...Option) *Agent {
	a := &Agent{
		provider:         provider,
		goal:             goal,
		tokens:           newTokenCounter(),
		maxSnapshotChars: DefaultMaxSnapshotChars,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decide appends a user turn built from the observation, issues one
// completion request with the fixed system prompt plus the full history,
// appends the raw reply as an assistant turn, and returns the reply
// unmodified. Transport and API errors propagate to the caller and are
// fatal for the run.
func (a *Agent) Decide(ctx context.Context, obs Observation) (string, error) {
	snapshot := truncateSnapshot(obs.Snapshot, a.maxSnapshotChars)

	userTurn := fmt.Sprintf("GOAL: %s\n\nCurrent URL: %s\n\nAccessibility Tree:\n%s",
		a.goal, obs.URL, snapshot)
	a.history = append(a.history, types.NewUserMessage(userTurn))

	messages := a.buildMessages()
	if a.log != nil {
		a.log.Debugf("sending completion request: %d messages, ~%d prompt tokens",
			len(messages), a.tokens.Count(messages))
	}

	reply, err := a.provider.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	a.history = append(a.history, types.NewAssistantMessage(reply.Content))
	return reply.Content, nil
}

// NoteFailure folds an execution failure back into the conversation as
// a user turn so the model can try a different approach next step.
func (a *Agent) NoteFailure(message string) {
	a.history = append(a.history, types.NewUserMessage("ERROR: "+message))
}

// History returns a copy of the conversation turns accumulated so far.
func (a *Agent) History() []*types.Message {
	out := make([]*types.Message, len(a.history))
	copy(out, a.history)
	return out
}

// buildMessages prepends the fixed system turn to the growing history.
func (a *Agent) buildMessages() []*types.Message {
	messages := make([]*types.Message, 0, len(a.history)+1)
	messages = append(messages, types.NewMessage(types.RoleSystem, systemPrompt))
	messages = append(messages, a.history...)
	return messages
}

// truncateSnapshot hard-caps the snapshot at max characters, appending
// a visible marker when content was dropped.
func truncateSnapshot(snapshot string, max int) string {
	if max <= 0 || len(snapshot) <= max {
		return snapshot
	}
	return snapshot[:max] + truncationMarker
}
