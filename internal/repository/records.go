package repository

import (
	"github.com/roach88/kvrepo/internal/codec"
	"github.com/roach88/kvrepo/internal/kv"
	"github.com/roach88/kvrepo/internal/record"
)

// Namespace prefixes for the bundled record types.
const (
	AccountPrefix = "account:"
	TodoPrefix    = "todo:"
)

// AccountNamespace keys accounts by name.
func AccountNamespace() Namespace[record.Account] {
	return Namespace[record.Account]{
		Prefix: AccountPrefix,
		Key:    record.AccountKey,
		Codec:  codec.AccountCodec{},
	}
}

// TodoNamespace keys todos by id.
func TodoNamespace() Namespace[record.Todo] {
	return Namespace[record.Todo]{
		Prefix: TodoPrefix,
		Key:    record.TodoKey,
		Codec:  codec.TodoCodec{},
	}
}

// NewAccounts returns the account repository on store.
func NewAccounts(store *kv.Store) (*KeyValue[record.Account], error) {
	return New(store, AccountNamespace())
}

// NewTodos returns the todo repository on store.
func NewTodos(store *kv.Store) (*KeyValue[record.Todo], error) {
	return New(store, TodoNamespace())
}

var (
	_ Repository[record.Account] = (*KeyValue[record.Account])(nil)
	_ Repository[record.Todo]    = (*KeyValue[record.Todo])(nil)
)
