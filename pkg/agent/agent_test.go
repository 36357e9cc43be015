package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/gurney/pkg/types"
)

// mockProvider returns canned replies and records what it was sent.
type mockProvider struct {
	reply    string
	err      error
	requests [][]*types.Message
}

func (m *mockProvider) Complete(_ context.Context, messages []*types.Message) (*types.Message, error) {
	m.requests = append(m.requests, messages)
	if m.err != nil {
		return nil, m.err
	}
	return types.NewAssistantMessage(m.reply), nil
}

func (m *mockProvider) GetModel() string   { return "mock" }
func (m *mockProvider) GetBaseURL() string { return "mock://" }

func TestDecideAppendsTwoTurns(t *testing.T) {
	provider := &mockProvider{reply: `{"action":"answer","text":"done"}`}
	a := New(provider, "find the pricing page")

	raw, err := a.Decide(context.Background(), Observation{
		URL:      "https://example.com",
		Snapshot: "- heading \"Welcome\"",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"action":"answer","text":"done"}`, raw)

	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, types.RoleAssistant, history[1].Role)

	assert.Contains(t, history[0].Content, "GOAL: find the pricing page")
	assert.Contains(t, history[0].Content, "Current URL: https://example.com")
	assert.Contains(t, history[0].Content, `- heading "Welcome"`)
}

func TestDecideSendsSystemPromptPlusFullHistory(t *testing.T) {
	provider := &mockProvider{reply: `{"action":"scroll","direction":"down"}`}
	a := New(provider, "read the docs")

	_, err := a.Decide(context.Background(), Observation{URL: "https://a.test", Snapshot: "one"})
	require.NoError(t, err)
	_, err = a.Decide(context.Background(), Observation{URL: "https://a.test", Snapshot: "two"})
	require.NoError(t, err)

	require.Len(t, provider.requests, 2)

	// Second request: system turn + (user, assistant, user).
	second := provider.requests[1]
	require.Len(t, second, 4)
	assert.Equal(t, types.RoleSystem, second[0].Role)
	assert.Equal(t, types.RoleUser, second[1].Role)
	assert.Equal(t, types.RoleAssistant, second[2].Role)
	assert.Equal(t, types.RoleUser, second[3].Role)

	// The system turn is prepended per request, never persisted.
	for _, turn := range a.History() {
		assert.NotEqual(t, types.RoleSystem, turn.Role)
	}
}

func TestDecidePropagatesProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	a := New(provider, "goal")

	_, err := a.Decide(context.Background(), Observation{URL: "https://a.test", Snapshot: "x"})
	assert.Error(t, err)
}

func TestDecideTruncatesLongSnapshot(t *testing.T) {
	provider := &mockProvider{reply: "{}"}
	a := New(provider, "goal", WithMaxSnapshotChars(100))

	longSnapshot := strings.Repeat("- link \"item\"\n", 50)
	_, err := a.Decide(context.Background(), Observation{URL: "https://a.test", Snapshot: longSnapshot})
	require.NoError(t, err)

	userTurn := a.History()[0].Content
	assert.Contains(t, userTurn, truncationMarker)
	// Head content survives, tail is dropped.
	assert.Less(t, len(userTurn), len(longSnapshot))
}

func TestNoteFailureAppendsUserTurn(t *testing.T) {
	a := New(&mockProvider{}, "goal")

	a.NoteFailure(`Action 'click' failed: timeout waiting for role=button`)

	history := a.History()
	require.Len(t, history, 1)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Contains(t, history[0].Content, "ERROR:")
	assert.Contains(t, history[0].Content, "timeout waiting for")
}

func TestTruncateSnapshot(t *testing.T) {
	assert.Equal(t, "short", truncateSnapshot("short", 100))
	assert.Equal(t, "short", truncateSnapshot("short", 0))

	got := truncateSnapshot("abcdefghij", 4)
	assert.Equal(t, "abcd"+truncationMarker, got)
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
	assert.Equal(t, 1, approxTokens("abc"))
	assert.Equal(t, 1, approxTokens("abcd"))
	assert.Equal(t, 2, approxTokens("abcde"))
}
