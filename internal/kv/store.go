package kv

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrEmptyPrefix is returned when reserving an empty namespace prefix.
	ErrEmptyPrefix = errors.New("namespace prefix must be non-empty")

	// ErrPrefixCollision is returned when a prefix overlaps one already reserved.
	ErrPrefixCollision = errors.New("namespace prefix collides with a reserved prefix")
)

// Store maps string keys to opaque byte values.
// The zero value is not usable; call New.
type Store struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	prefixes []string
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// Put inserts or overwrites the value under key. The value is copied.
func (s *Store) Put(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = v
}

// Get returns a copy of the value under key and whether it exists.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Delete removes key and reports whether an entry existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Len returns the number of entries across all namespaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns all keys in ascending byte order.
func (s *Store) Keys() []string {
	return s.KeysWithPrefix("")
}

// KeysWithPrefix returns the keys starting with prefix in ascending byte order.
// Returns an empty slice (not nil) if none match.
func (s *Store) KeysWithPrefix(prefix string) []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Reserve claims a namespace prefix on this store.
//
// Returns ErrEmptyPrefix for "" and ErrPrefixCollision if prefix is equal to,
// a prefix of, or extends a prefix already reserved.
func (s *Store) Reserve(prefix string) error {
	if prefix == "" {
		return ErrEmptyPrefix
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prefixes {
		if strings.HasPrefix(p, prefix) || strings.HasPrefix(prefix, p) {
			return fmt.Errorf("%w: %q overlaps %q", ErrPrefixCollision, prefix, p)
		}
	}
	s.prefixes = append(s.prefixes, prefix)
	return nil
}

// Prefixes returns the reserved namespace prefixes in reservation order.
func (s *Store) Prefixes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.prefixes))
	copy(out, s.prefixes)
	return out
}
