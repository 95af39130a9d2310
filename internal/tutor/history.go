package tutor

import (
	"container/list"
	"sync"
)

// Turn is one message in a tutoring conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is a size-bounded conversation store keyed by conversation
// id. The least recently used conversation is evicted at capacity, and
// each conversation keeps at most maxTurns turns.
type History struct {
	mu       sync.Mutex
	capacity int
	maxTurns int
	order    *list.List // front = most recently used
	convs    map[string]*list.Element
}

type conversation struct {
	key   string
	turns []Turn
}

// NewHistory creates a history store holding up to capacity
// conversations of up to maxTurns turns each.
func NewHistory(capacity, maxTurns int) *History {
	if capacity < 1 {
		capacity = 1
	}
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &History{
		capacity: capacity,
		maxTurns: maxTurns,
		order:    list.New(),
		convs:    make(map[string]*list.Element),
	}
}

// Append records a turn in the given conversation, creating it if
// needed and evicting the least recently used conversation at capacity.
func (h *History) Append(key string, turn Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if el, ok := h.convs[key]; ok {
		h.order.MoveToFront(el)
		conv := el.Value.(*conversation)
		conv.turns = append(conv.turns, turn)
		if len(conv.turns) > h.maxTurns {
			conv.turns = conv.turns[len(conv.turns)-h.maxTurns:]
		}
		return
	}

	if h.order.Len() >= h.capacity {
		oldest := h.order.Back()
		if oldest != nil {
			h.order.Remove(oldest)
			delete(h.convs, oldest.Value.(*conversation).key)
		}
	}
	h.convs[key] = h.order.PushFront(&conversation{key: key, turns: []Turn{turn}})
}

// Recent returns up to n most recent turns of a conversation, oldest
// first. A missing conversation yields nil.
func (h *History) Recent(key string, n int) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	el, ok := h.convs[key]
	if !ok {
		return nil
	}
	h.order.MoveToFront(el)
	turns := el.Value.(*conversation).turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the number of stored conversations.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.order.Len()
}
