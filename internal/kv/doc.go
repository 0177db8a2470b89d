// Package kv provides the shared in-memory byte store behind every
// repository.
//
// One Store holds the entries of all record types. Types are kept apart by
// key prefix: each repository reserves a namespace prefix on the store at
// construction, and Reserve rejects any prefix that is equal to, a prefix
// of, or an extension of one already reserved. Disjoint prefixes guarantee
// that two types never address the same key.
//
// The store lives purely in process memory and is never persisted.
//
// Thread-safety: every method is a single atomic step guarded by an internal
// RWMutex. There is no isolation across separate calls.
package kv
