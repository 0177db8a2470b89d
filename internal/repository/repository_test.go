package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/roach88/kvrepo/internal/codec"
	"github.com/roach88/kvrepo/internal/kv"
	"github.com/roach88/kvrepo/internal/record"
)

func TestAccount_StoreThenGet(t *testing.T) {
	_, accounts, _ := createTestRepos(t)
	acct := record.Account{Name: "alice", Email: "alice@example.com", Roles: []string{"admin"}}

	require.NoError(t, accounts.Store(acct))

	got, found, err := accounts.GetByID("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, acct, got)
}

func TestAccount_Lifecycle(t *testing.T) {
	_, accounts, _ := createTestRepos(t)

	require.NoError(t, accounts.Store(record.Account{Name: "alice"}))

	got, found, err := accounts.GetByID("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Account{Name: "alice"}, got)

	deleted, err := accounts.Delete("alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, err = accounts.GetByID("alice")
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err = accounts.Delete("alice")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAccount_DeleteExists(t *testing.T) {
	store, accounts, _ := createTestRepos(t)
	store.Put(AccountPrefix+"1234", []byte{1})

	deleted, err := accounts.Delete("1234")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAccount_DeleteDoesntExist(t *testing.T) {
	_, accounts, _ := createTestRepos(t)

	deleted, err := accounts.Delete("1234")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTodo_DeleteExists(t *testing.T) {
	store, _, todos := createTestRepos(t)
	store.Put(TodoPrefix+"1234", []byte{1})

	deleted, err := todos.Delete("1234")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTodo_DeleteDoesntExist(t *testing.T) {
	_, _, todos := createTestRepos(t)

	deleted, err := todos.Delete("1234")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGetByID_NeverStored(t *testing.T) {
	_, accounts, todos := createTestRepos(t)

	for _, key := range []string{"", "missing", "account:", " spaced "} {
		acct, found, err := accounts.GetByID(key)
		require.NoError(t, err)
		assert.False(t, found, "key %q", key)
		assert.Equal(t, record.Account{}, acct)

		_, found, err = todos.GetByID(key)
		require.NoError(t, err)
		assert.False(t, found, "key %q", key)
	}
}

func TestGetByID_PresentButEmptyIsFound(t *testing.T) {
	// An account whose every field is zero encodes to zero bytes.
	// It is still present, and must not be confused with absence.
	_, accounts, _ := createTestRepos(t)
	require.NoError(t, accounts.Store(record.Account{}))

	got, found, err := accounts.GetByID("")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record.Account{}, got)
}

func TestTodo_StoreTwiceOverwrites(t *testing.T) {
	store, _, todos := createTestRepos(t)

	first := createTestTodo("t1", "first draft")
	second := record.Todo{ID: "t1", Owner: "bob", Title: "final", Done: true, Tags: []string{"x"}}

	require.NoError(t, todos.Store(first))
	require.NoError(t, todos.Store(second))

	got, found, err := todos.GetByID("t1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
	assert.Equal(t, 1, store.Len())
}

func TestSharedStore_TypesDoNotCollide(t *testing.T) {
	store, accounts, todos := createTestRepos(t)

	acct := record.Account{Name: "1234", Email: "a@example.com"}
	todo := createTestTodo("1234", "same natural key")

	require.NoError(t, accounts.Store(acct))
	require.NoError(t, todos.Store(todo))
	assert.Equal(t, []string{"account:1234", "todo:1234"}, store.Keys())

	gotAcct, found, err := accounts.GetByID("1234")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, acct, gotAcct)

	gotTodo, found, err := todos.GetByID("1234")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, todo, gotTodo)

	deleted, err := accounts.Delete("1234")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, err = todos.GetByID("1234")
	require.NoError(t, err)
	assert.True(t, found, "deleting the account must not touch the todo")

	deleted, err = todos.Delete("1234")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, store.Len())
}

func TestGetByID_CorruptBytesIsDecodeError(t *testing.T) {
	store, accounts, todos := createTestRepos(t)
	store.Put(AccountPrefix+"1234", []byte{1})
	store.Put(TodoPrefix+"1234", []byte{0x0a, 0x09, 'x'})

	_, found, err := accounts.GetByID("1234")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, codec.IsDecodeError(err))
	assert.Contains(t, err.Error(), `get account "1234"`)

	_, found, err = todos.GetByID("1234")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, codec.IsDecodeError(err))

	// Corruption is confined to reads; the entry can still be removed.
	deleted, err := accounts.Delete("1234")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestStore_EncodeErrorLeavesStoreUntouched(t *testing.T) {
	store, accounts, _ := createTestRepos(t)
	require.NoError(t, accounts.Store(record.Account{Name: "alice", Email: "old@example.com"}))

	err := accounts.Store(record.Account{Name: "alice", Email: "bad\xff"})
	require.Error(t, err)
	assert.True(t, codec.IsEncodeError(err))
	assert.Contains(t, err.Error(), `store account "alice"`)

	got, found, err := accounts.GetByID("alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "old@example.com", got.Email)
	assert.Equal(t, 1, store.Len())
}

func TestKeys_ListsNaturalKeysOfOneNamespace(t *testing.T) {
	_, accounts, todos := createTestRepos(t)
	require.NoError(t, accounts.Store(record.Account{Name: "bob"}))
	require.NoError(t, accounts.Store(record.Account{Name: "alice"}))
	require.NoError(t, todos.Store(createTestTodo("t1", "x")))

	assert.Equal(t, []string{"alice", "bob"}, accounts.Keys())
	assert.Equal(t, []string{"t1"}, todos.Keys())
}

func TestStoreKey(t *testing.T) {
	_, accounts, todos := createTestRepos(t)

	assert.Equal(t, "account:", accounts.Prefix())
	assert.Equal(t, "account:alice", accounts.StoreKey("alice"))
	assert.Equal(t, "todo:t1", todos.StoreKey("t1"))
}

func TestNew_PrefixCollision(t *testing.T) {
	store := kv.New()
	_, err := NewAccounts(store)
	require.NoError(t, err)

	_, err = NewAccounts(store)
	assert.ErrorIs(t, err, ErrPrefixCollision)

	ns := TodoNamespace()
	ns.Prefix = "acc"
	_, err = New(store, ns)
	assert.ErrorIs(t, err, ErrPrefixCollision)

	ns.Prefix = "account:archived:"
	_, err = New(store, ns)
	assert.ErrorIs(t, err, ErrPrefixCollision)
}

func TestNew_EmptyPrefix(t *testing.T) {
	ns := AccountNamespace()
	ns.Prefix = ""

	_, err := New(kv.New(), ns)
	assert.ErrorIs(t, err, ErrEmptyPrefix)
}

func TestNew_MissingKeyOrCodec(t *testing.T) {
	ns := AccountNamespace()
	ns.Key = nil
	_, err := New(kv.New(), ns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key function is required")

	ns = AccountNamespace()
	ns.Codec = nil
	_, err = New(kv.New(), ns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec is required")
}

func TestNew_FailedRegistrationDoesNotReserve(t *testing.T) {
	store := kv.New()
	ns := AccountNamespace()
	ns.Codec = nil

	_, err := New(store, ns)
	require.Error(t, err)

	_, err = NewAccounts(store)
	assert.NoError(t, err)
}

// failingCodec rejects every record, to exercise error propagation.
type failingCodec struct{}

var errRefused = errors.New("refused")

func (failingCodec) Name() string { return "failing" }

func (failingCodec) Encode(string) ([]byte, error) {
	return nil, &codec.EncodeError{Codec: "failing", Err: errRefused}
}

func (failingCodec) Decode([]byte) (string, error) {
	return "", &codec.DecodeError{Codec: "failing", Offset: -1, Err: errRefused}
}

func TestKeyValue_PropagatesCodecErrors(t *testing.T) {
	store := kv.New()
	repo, err := New(store, Namespace[string]{
		Prefix: "str:",
		Key:    func(s string) string { return s },
		Codec:  failingCodec{},
	})
	require.NoError(t, err)

	err = repo.Store("x")
	assert.ErrorIs(t, err, errRefused)
	assert.True(t, codec.IsEncodeError(err))
	assert.Equal(t, 0, store.Len())

	store.Put("str:x", []byte("anything"))
	_, found, err := repo.GetByID("x")
	assert.False(t, found)
	assert.ErrorIs(t, err, errRefused)
	assert.True(t, codec.IsDecodeError(err))
}

var keyString = rapid.StringMatching(`[a-z0-9:-]{0,10}`)

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := kv.New()
		accounts, err := NewAccounts(store)
		if err != nil {
			rt.Fatalf("new accounts: %v", err)
		}
		todos, err := NewTodos(store)
		if err != nil {
			rt.Fatalf("new todos: %v", err)
		}

		acct := record.Account{
			Name:        keyString.Draw(rt, "name"),
			Email:       keyString.Draw(rt, "email"),
			DisplayName: keyString.Draw(rt, "display_name"),
			Roles:       rapid.SliceOf(keyString).Draw(rt, "roles"),
		}
		todo := record.Todo{
			ID:       keyString.Draw(rt, "id"),
			Owner:    keyString.Draw(rt, "owner"),
			Title:    keyString.Draw(rt, "title"),
			Notes:    keyString.Draw(rt, "notes"),
			Done:     rapid.Bool().Draw(rt, "done"),
			Priority: rapid.Int64().Draw(rt, "priority"),
			Tags:     rapid.SliceOf(keyString).Draw(rt, "tags"),
		}

		if err := accounts.Store(acct); err != nil {
			rt.Fatalf("store account: %v", err)
		}
		if err := todos.Store(todo); err != nil {
			rt.Fatalf("store todo: %v", err)
		}

		gotAcct, found, err := accounts.GetByID(acct.Name)
		require.NoError(rt, err)
		require.True(rt, found)
		assert.Equal(rt, acct.Canonical(), gotAcct)

		gotTodo, found, err := todos.GetByID(todo.ID)
		require.NoError(rt, err)
		require.True(rt, found)
		assert.Equal(rt, todo.Canonical(), gotTodo)

		deleted, err := accounts.Delete(acct.Name)
		require.NoError(rt, err)
		assert.True(rt, deleted)

		_, found, err = accounts.GetByID(acct.Name)
		require.NoError(rt, err)
		assert.False(rt, found)
		assert.Equal(rt, 1, store.Len())
	})
}

func TestNeverStoredProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := kv.New()
		accounts, err := NewAccounts(store)
		if err != nil {
			rt.Fatalf("new accounts: %v", err)
		}
		todos, err := NewTodos(store)
		if err != nil {
			rt.Fatalf("new todos: %v", err)
		}
		key := keyString.Draw(rt, "key")

		_, found, err := accounts.GetByID(key)
		require.NoError(rt, err)
		assert.False(rt, found)

		deleted, err := todos.Delete(key)
		require.NoError(rt, err)
		assert.False(rt, deleted)
	})
}
