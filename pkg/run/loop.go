// Package run orchestrates a single agent run: observe the page, ask
// the model for one action, inject credentials, execute, and watch for
// a terminal answer, all under a fixed step budget.
package run

import (
	"context"

	"github.com/entrhq/gurney/pkg/agent"
	"github.com/entrhq/gurney/pkg/logging"
	"github.com/entrhq/gurney/pkg/secrets"
	"github.com/entrhq/gurney/pkg/types"
)

// State is the terminal state of a run.
type State string

const (
	// StateSuccess means an answer action ended the run.
	StateSuccess State = "success"

	// StateExhausted means the step budget ran out without an answer.
	StateExhausted State = "exhausted"

	// StateFatal means a collaborator failed outside a single step's
	// control (completion outage, browser crash, cancellation).
	StateFatal State = "fatal"
)

// Session describes one run. It is created at run start and owns no
// resources itself.
type Session struct {
	Goal     string
	StartURL string
	MaxSteps int
}

// Outcome is the definite result every run produces: an answer, an
// explicit exhaustion signal, or an error. Never an indefinite hang —
// every suspension point is bounded and the loop itself is bounded.
type Outcome struct {
	State  State
	Result string
	Err    error
}

// PageObserver yields fresh views of page state.
type PageObserver interface {
	Snapshot() (string, error)
	URL() string
}

// Decider turns an observation into raw model output and absorbs
// failure feedback into the conversation.
type Decider interface {
	Decide(ctx context.Context, obs agent.Observation) (string, error)
	NoteFailure(message string)
}

// Executor performs one action against the page. A terminal result
// carries the run's answer text.
type Executor interface {
	Execute(action *types.Action) (result string, terminal bool, err error)
}

// Runner wires the collaborators for one run. A Runner drives exactly
// one page and one conversation; it is not shared across runs.
type Runner struct {
	Decider  Decider
	Page     PageObserver
	Executor Executor

	// Injector substitutes credential placeholders before execution.
	// Nil disables substitution.
	Injector *secrets.Injector

	// Policy optionally restricts navigate actions. Nil allows all URLs.
	Policy *NavigationPolicy

	// Log receives per-step diagnostics; nil disables them.
	Log *logging.Logger
}

// Run executes the decision loop until an answer, exhaustion, or a
// fatal failure. Each iteration is one full observe-decide-execute
// cycle; the step index advances whether or not the step produced a
// usable action.
//
// Cancellation is step-granular: the context is checked at the top of
// each iteration and never interrupts a step already in flight on the
// page.
func (r *Runner) Run(ctx context.Context, session Session) Outcome {
	for step := 1; step <= session.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return Outcome{State: StateFatal, Err: err}
		}

		snapshot, err := r.Page.Snapshot()
		if err != nil {
			return Outcome{State: StateFatal, Err: err}
		}

		url := r.Page.URL()
		r.infof("step %d/%d url=%s", step, session.MaxSteps, url)

		raw, err := r.Decider.Decide(ctx, agent.Observation{URL: url, Snapshot: snapshot})
		if err != nil {
			return Outcome{State: StateFatal, Err: err}
		}

		action, ok := agent.ParseAction(raw)
		if !ok {
			r.warnf("step %d: could not parse action from model output (%d bytes), skipping", step, len(raw))
			continue
		}
		r.infof("step %d: action=%s reason=%q", step, action.Type, action.Reason)

		if action.Type == types.ActionNavigate && !r.Policy.Allows(action.URL) {
			message := "Action 'navigate' failed: URL " + action.URL + " is not in the allowed list"
			r.warnf("step %d: %s", step, message)
			r.Decider.NoteFailure(message)
			continue
		}

		if r.Injector != nil {
			action = r.Injector.Inject(action)
		}

		result, terminal, err := r.Executor.Execute(action)
		if err != nil {
			r.warnf("step %d: %v", step, err)
			r.Decider.NoteFailure(err.Error())
			continue
		}

		if terminal {
			r.infof("step %d: answer received", step)
			return Outcome{State: StateSuccess, Result: result}
		}
	}

	r.infof("reached max steps (%d) without an answer", session.MaxSteps)
	return Outcome{State: StateExhausted}
}

func (r *Runner) infof(format string, v ...interface{}) {
	if r.Log != nil {
		r.Log.Infof(format, v...)
	}
}

func (r *Runner) warnf(format string, v ...interface{}) {
	if r.Log != nil {
		r.Log.Warnf(format, v...)
	}
}
