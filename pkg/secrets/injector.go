// Package secrets substitutes credential placeholder tokens into action
// payloads immediately before execution. The model is instructed to emit
// the tokens instead of real values, so secrets never enter the
// conversation history; substitution happens on a copy at the last
// possible moment.
package secrets

import (
	"strings"

	"github.com/entrhq/gurney/pkg/types"
)

// Placeholder tokens the model is instructed to emit for login fields.
const (
	UsernameToken = "{{username}}"
	PasswordToken = "{{password}}"
)

// Injector replaces placeholder tokens in fill payloads with configured
// credential values. The zero value performs no substitution.
type Injector struct {
	username string
	password string
}

// NewInjector creates an injector with the given credentials. Either
// value may be empty; an empty value leaves its token intact so a
// misconfigured run fails visibly (the literal token is submitted)
// rather than silently.
func NewInjector(username, password string) *Injector {
	return &Injector{username: username, password: password}
}

// Inject returns the action with placeholder tokens replaced. Only fill
// actions are touched; everything else is returned unchanged. The input
// action is never mutated.
func (i *Injector) Inject(action *types.Action) *types.Action {
	if action == nil || action.Type != types.ActionFill {
		return action
	}
	if !strings.Contains(action.Text, UsernameToken) && !strings.Contains(action.Text, PasswordToken) {
		return action
	}

	injected := action.Clone()
	if i.username != "" {
		injected.Text = strings.ReplaceAll(injected.Text, UsernameToken, i.username)
	}
	if i.password != "" {
		injected.Text = strings.ReplaceAll(injected.Text, PasswordToken, i.password)
	}
	return injected
}

// HasCredentials reports whether at least one credential is configured.
func (i *Injector) HasCredentials() bool {
	return i.username != "" || i.password != ""
}
