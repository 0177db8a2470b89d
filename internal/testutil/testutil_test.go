package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Monotonic(t *testing.T) {
	seq := NewSequence()
	assert.Equal(t, int64(0), seq.Current())

	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(2), seq.Next())
	assert.Equal(t, int64(2), seq.Current())
}

func TestSequence_Concurrent(t *testing.T) {
	seq := NewSequence()
	const goroutines, perGoroutine = 8, 100

	seen := make([]map[int64]bool, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		seen[i] = make(map[int64]bool)
		wg.Add(1)
		go func(m map[int64]bool) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m[seq.Next()] = true
			}
		}(seen[i])
	}
	wg.Wait()

	all := make(map[int64]bool)
	for _, m := range seen {
		for v := range m {
			require.False(t, all[v], "duplicate sequence value %d", v)
			all[v] = true
		}
	}
	assert.Len(t, all, goroutines*perGoroutine)
	assert.Equal(t, int64(goroutines*perGoroutine), seq.Current())
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("")
	assert.Equal(t, "todo-0001", ids.NewID())
	assert.Equal(t, "todo-0002", ids.NewID())

	again := NewSequentialIDs("")
	assert.Equal(t, "todo-0001", again.NewID(), "each generator numbers from 1")

	custom := NewSequentialIDs("t")
	assert.Equal(t, "t0001", custom.NewID())
}
