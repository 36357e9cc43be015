package types

import (
	"errors"
	"fmt"
)

// ActionType identifies what the model wants done to the page. The set
// is closed: anything outside it is rejected at decode time, before it
// can reach execution logic.
type ActionType string

const (
	ActionClick    ActionType = "click"
	ActionFill     ActionType = "fill"
	ActionNavigate ActionType = "navigate"
	ActionScroll   ActionType = "scroll"
	ActionWait     ActionType = "wait"
	ActionAnswer   ActionType = "answer"
)

// Valid reports whether t is one of the known action tags.
func (t ActionType) Valid() bool {
	switch t {
	case ActionClick, ActionFill, ActionNavigate, ActionScroll, ActionWait, ActionAnswer:
		return true
	}
	return false
}

// ScrollDirection is the direction of a scroll action.
type ScrollDirection string

const (
	ScrollUp   ScrollDirection = "up"
	ScrollDown ScrollDirection = "down"
)

// Action is one step the model requested. Exactly one action is valid
// per decision; which fields are meaningful depends on Type:
//
//   - click:    Target
//   - fill:     Target, Text, Submit
//   - navigate: URL
//   - scroll:   Direction
//   - wait:     Seconds
//   - answer:   Text (terminal — the only way a run produces a result)
//
// Reason is free text for humans and is never interpreted.
type Action struct {
	Type      ActionType      `json:"action"`
	Target    *Target         `json:"target,omitempty"`
	Text      string          `json:"text,omitempty"`
	Submit    bool            `json:"submit,omitempty"`
	URL       string          `json:"url,omitempty"`
	Direction ScrollDirection `json:"direction,omitempty"`
	Seconds   float64         `json:"seconds,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Validate checks the tag and the fields that tag requires.
func (a *Action) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown action type: %q", a.Type)
	}

	switch a.Type {
	case ActionClick:
		if a.Target == nil || a.Target.Kind() == TargetNone {
			return errors.New("click action requires a resolvable target")
		}
	case ActionFill:
		if a.Target == nil || a.Target.Kind() == TargetNone {
			return errors.New("fill action requires a resolvable target")
		}
	case ActionNavigate:
		if a.URL == "" {
			return errors.New("navigate action requires a url")
		}
	case ActionScroll:
		if a.Direction != ScrollUp && a.Direction != ScrollDown {
			return fmt.Errorf("scroll direction must be %q or %q", ScrollUp, ScrollDown)
		}
	case ActionWait:
		if a.Seconds <= 0 {
			return errors.New("wait action requires a positive duration")
		}
	}

	return nil
}

// Clone returns a deep copy. Mutating the copy (e.g. credential
// substitution) leaves the original untouched.
func (a *Action) Clone() *Action {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Target != nil {
		target := *a.Target
		clone.Target = &target
	}
	return &clone
}

// IsTerminal reports whether executing this action ends the run.
func (a *Action) IsTerminal() bool {
	return a.Type == ActionAnswer
}

// TargetKind identifies which lookup strategy a Target selects.
type TargetKind string

const (
	TargetRoleName    TargetKind = "role+name"
	TargetText        TargetKind = "text"
	TargetLabel       TargetKind = "label"
	TargetPlaceholder TargetKind = "placeholder"
	TargetNone        TargetKind = ""
)

// Target describes how to locate a page element. A raw descriptor may
// carry several keys; resolution order is role+name > text > label >
// placeholder, so a descriptor with both role/name and text always
// resolves by role.
type Target struct {
	Role        string `json:"role,omitempty"`
	Name        string `json:"name,omitempty"`
	Text        string `json:"text,omitempty"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Kind returns the highest-priority strategy present in the descriptor,
// or TargetNone when no strategy applies.
func (t *Target) Kind() TargetKind {
	switch {
	case t.Role != "" && t.Name != "":
		return TargetRoleName
	case t.Text != "":
		return TargetText
	case t.Label != "":
		return TargetLabel
	case t.Placeholder != "":
		return TargetPlaceholder
	}
	return TargetNone
}

// String renders the target for logs and failure messages.
func (t *Target) String() string {
	switch t.Kind() {
	case TargetRoleName:
		return fmt.Sprintf("role=%q name=%q", t.Role, t.Name)
	case TargetText:
		return fmt.Sprintf("text=%q", t.Text)
	case TargetLabel:
		return fmt.Sprintf("label=%q", t.Label)
	case TargetPlaceholder:
		return fmt.Sprintf("placeholder=%q", t.Placeholder)
	}
	return "<unresolvable>"
}
