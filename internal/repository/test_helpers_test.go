package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kvrepo/internal/kv"
	"github.com/roach88/kvrepo/internal/record"
)

// createTestRepos creates account and todo repositories sharing one store.
func createTestRepos(t *testing.T) (*kv.Store, *KeyValue[record.Account], *KeyValue[record.Todo]) {
	t.Helper()
	store := kv.New()

	accounts, err := NewAccounts(store)
	require.NoError(t, err)

	todos, err := NewTodos(store)
	require.NoError(t, err)

	return store, accounts, todos
}

// createTestTodo creates a todo with the given id and title.
func createTestTodo(id, title string) record.Todo {
	return record.Todo{
		ID:       id,
		Owner:    "alice",
		Title:    title,
		Priority: 1,
	}
}
