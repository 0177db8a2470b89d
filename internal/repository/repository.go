package repository

import (
	"fmt"

	"github.com/roach88/kvrepo/internal/codec"
	"github.com/roach88/kvrepo/internal/kv"
)

// Sentinel errors returned by New, matched with errors.Is.
var (
	ErrEmptyPrefix     = kv.ErrEmptyPrefix
	ErrPrefixCollision = kv.ErrPrefixCollision
)

// Repository is the storage contract for a record type T.
type Repository[T any] interface {
	// Store creates or replaces the record under its natural key.
	Store(rec T) error

	// GetByID returns the record stored under key.
	// found is false, with a nil error, when no entry exists.
	GetByID(key string) (rec T, found bool, err error)

	// Delete removes the record under key and reports whether one existed.
	Delete(key string) (bool, error)
}

// Namespace binds a record type to its key space on a shared store.
type Namespace[T any] struct {
	// Prefix is prepended to every natural key. Must be non-empty and must
	// not overlap any other prefix on the same store.
	Prefix string

	// Key extracts the natural key from a record.
	Key func(T) string

	// Codec serializes records of type T.
	Codec codec.Codec[T]
}

// KeyValue implements Repository over a namespaced view of a kv.Store.
type KeyValue[T any] struct {
	store *kv.Store
	ns    Namespace[T]
}

// New reserves ns.Prefix on store and returns a repository for T.
//
// Returns ErrEmptyPrefix or ErrPrefixCollision if the prefix cannot be
// reserved.
func New[T any](store *kv.Store, ns Namespace[T]) (*KeyValue[T], error) {
	if ns.Key == nil {
		return nil, fmt.Errorf("new repository %q: key function is required", ns.Prefix)
	}
	if ns.Codec == nil {
		return nil, fmt.Errorf("new repository %q: codec is required", ns.Prefix)
	}
	if err := store.Reserve(ns.Prefix); err != nil {
		return nil, fmt.Errorf("new repository: %w", err)
	}
	return &KeyValue[T]{store: store, ns: ns}, nil
}

// Prefix returns the namespace prefix of this repository.
func (r *KeyValue[T]) Prefix() string {
	return r.ns.Prefix
}

// StoreKey returns the physical key for a natural key.
func (r *KeyValue[T]) StoreKey(key string) string {
	return r.ns.Prefix + key
}

// Store encodes rec and writes it under its StoreKey, replacing any
// previous entry for the same natural key.
func (r *KeyValue[T]) Store(rec T) error {
	key := r.ns.Key(rec)
	data, err := r.ns.Codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("store %s %q: %w", r.ns.Codec.Name(), key, err)
	}
	r.store.Put(r.StoreKey(key), data)
	return nil
}

// GetByID reads and decodes the record under key.
// Keys are looked up exactly as given.
func (r *KeyValue[T]) GetByID(key string) (T, bool, error) {
	var zero T
	data, ok := r.store.Get(r.StoreKey(key))
	if !ok {
		return zero, false, nil
	}
	rec, err := r.ns.Codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("get %s %q: %w", r.ns.Codec.Name(), key, err)
	}
	return rec, true, nil
}

// Delete removes the entry under key.
// Removing a missing key returns false and no error.
func (r *KeyValue[T]) Delete(key string) (bool, error) {
	return r.store.Delete(r.StoreKey(key)), nil
}

// Keys returns the natural keys of all entries in this namespace,
// in ascending byte order.
func (r *KeyValue[T]) Keys() []string {
	storeKeys := r.store.KeysWithPrefix(r.ns.Prefix)
	keys := make([]string, len(storeKeys))
	for i, k := range storeKeys {
		keys[i] = k[len(r.ns.Prefix):]
	}
	return keys
}
