package testutil

import (
	"fmt"
	"sync"
)

// DefaultIDPrefix is used by NewSequentialIDs when no prefix is given.
const DefaultIDPrefix = "todo-"

// SequentialIDs hands out predictable ids: prefix followed by a
// zero-padded counter ("todo-0001", "todo-0002", ...).
//
// It satisfies record.IDGenerator.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix means DefaultIDPrefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &SequentialIDs{prefix: prefix}
}

// NewID returns the next id.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%04d", g.prefix, g.n)
}
