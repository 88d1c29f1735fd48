package interview

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

// ChatContext is the ordered, append-only turn history that gives the
// interview its conversational memory. It is seeded exactly once with the
// priming preamble; every later turn appends to the same sequence.
type ChatContext struct {
	mu    sync.Mutex
	turns []*schema.Message
}

// NewChatContext seeds a context with the priming preamble turns.
func NewChatContext(preamble ...*schema.Message) *ChatContext {
	return &ChatContext{turns: append([]*schema.Message(nil), preamble...)}
}

// Append adds a turn at the tail of the history.
func (c *ChatContext) Append(msg *schema.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, msg)
}

// Snapshot returns a copy of the full turn history in order.
func (c *ChatContext) Snapshot() []*schema.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]*schema.Message, len(c.turns))
	copy(copied, c.turns)
	return copied
}

// Len reports the number of turns, preamble included.
func (c *ChatContext) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
