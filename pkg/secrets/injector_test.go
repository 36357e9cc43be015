package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/gurney/pkg/types"
)

func TestInjectReplacesConfiguredTokens(t *testing.T) {
	inj := NewInjector("alice", "hunter2")

	action := &types.Action{
		Type:   types.ActionFill,
		Target: &types.Target{Label: "Username"},
		Text:   "{{username}}",
	}

	got := inj.Inject(action)
	assert.Equal(t, "alice", got.Text)

	// The original action keeps the placeholder: history built from it
	// never sees the real value.
	assert.Equal(t, "{{username}}", action.Text)
}

func TestInjectReplacesBothTokensInOnePayload(t *testing.T) {
	inj := NewInjector("alice", "hunter2")

	got := inj.Inject(&types.Action{
		Type:   types.ActionFill,
		Target: &types.Target{Label: "Login"},
		Text:   "{{username}}:{{password}}",
	})
	assert.Equal(t, "alice:hunter2", got.Text)
}

func TestInjectLeavesUnconfiguredTokenIntact(t *testing.T) {
	// Password not configured: its token survives so the failure is
	// visible on the page instead of silent.
	inj := NewInjector("alice", "")

	got := inj.Inject(&types.Action{
		Type:   types.ActionFill,
		Target: &types.Target{Label: "Password"},
		Text:   "{{password}}",
	})
	assert.Equal(t, "{{password}}", got.Text)
}

func TestInjectIgnoresNonFillActions(t *testing.T) {
	inj := NewInjector("alice", "hunter2")

	click := &types.Action{Type: types.ActionClick, Target: &types.Target{Text: "{{username}}"}}
	assert.Same(t, click, inj.Inject(click))

	answer := &types.Action{Type: types.ActionAnswer, Text: "{{password}}"}
	assert.Same(t, answer, inj.Inject(answer))
}

func TestInjectWithoutTokensReturnsSameAction(t *testing.T) {
	inj := NewInjector("alice", "hunter2")

	fill := &types.Action{Type: types.ActionFill, Target: &types.Target{Label: "Search"}, Text: "pricing"}
	assert.Same(t, fill, inj.Inject(fill))
}

func TestInjectNil(t *testing.T) {
	inj := NewInjector("alice", "hunter2")
	require.Nil(t, inj.Inject(nil))
}

func TestHasCredentials(t *testing.T) {
	assert.False(t, NewInjector("", "").HasCredentials())
	assert.True(t, NewInjector("alice", "").HasCredentials())
	assert.True(t, NewInjector("", "hunter2").HasCredentials())
}
