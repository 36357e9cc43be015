package agent

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/gurney/pkg/types"
)

// perMessageOverhead approximates the chat-format framing tokens added
// around each message.
const perMessageOverhead = 4

// tokenCounter estimates prompt size so context growth is visible in
// the logs. Counts are estimates, not billing-accurate: the encoding is
// cl100k_base regardless of the configured model, and when the encoding
// cannot be loaded a bytes/4 heuristic is used instead.
type tokenCounter struct {
	enc *tiktoken.Tiktoken
}

func newTokenCounter() *tokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &tokenCounter{}
	}
	return &tokenCounter{enc: enc}
}

// Count estimates the token count of a message sequence.
func (c *tokenCounter) Count(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += c.countText(msg.Content) + perMessageOverhead
	}
	return total
}

func (c *tokenCounter) countText(text string) int {
	if c.enc == nil {
		return approxTokens(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// approxTokens is the fallback estimate: roughly four bytes per token.
func approxTokens(text string) int {
	return (len(text) + 3) / 4
}
