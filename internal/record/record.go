package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyKey is returned when a natural key is empty after trimming.
var ErrEmptyKey = errors.New("natural key must be non-empty")

// Account is a user account, keyed by Name.
type Account struct {
	Name        string   `json:"name" yaml:"name"`
	Email       string   `json:"email,omitempty" yaml:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Roles       []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Todo is a task owned by an account, keyed by ID.
type Todo struct {
	ID       string   `json:"id" yaml:"id"`
	Owner    string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Done     bool     `json:"done,omitempty" yaml:"done,omitempty"`
	Priority int64    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// AccountKey returns the natural key of an account.
func AccountKey(a Account) string { return a.Name }

// TodoKey returns the natural key of a todo.
func TodoKey(t Todo) string { return t.ID }

// Canonical returns a copy of a with every string NFC normalized and an
// empty Roles collapsed to nil.
func (a Account) Canonical() Account {
	a.Name = norm.NFC.String(a.Name)
	a.Email = norm.NFC.String(a.Email)
	a.DisplayName = norm.NFC.String(a.DisplayName)
	a.Roles = canonicalStrings(a.Roles)
	return a
}

// Canonical returns a copy of t with every string NFC normalized and an
// empty Tags collapsed to nil.
func (t Todo) Canonical() Todo {
	t.ID = norm.NFC.String(t.ID)
	t.Owner = norm.NFC.String(t.Owner)
	t.Title = norm.NFC.String(t.Title)
	t.Notes = norm.NFC.String(t.Notes)
	t.Tags = canonicalStrings(t.Tags)
	return t
}

func canonicalStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = norm.NFC.String(s)
	}
	return out
}

// NewAccount builds an Account with a normalized name.
//
// The name is trimmed and NFC normalized so that visually identical names
// map to the same natural key.
func NewAccount(name, email string, roles ...string) (Account, error) {
	key, err := NormalizeKey(name)
	if err != nil {
		return Account{}, fmt.Errorf("new account: %w", err)
	}
	return Account{
		Name:  key,
		Email: strings.TrimSpace(email),
		Roles: roles,
	}, nil
}

// IDGenerator produces todo ids.
type IDGenerator interface {
	NewID() string
}

// UUIDv7 generates hyphenated UUIDv7 ids, which sort by creation time.
type UUIDv7 struct{}

// NewID returns a fresh UUIDv7 string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewTodoID returns a hyphenated UUIDv7 string.
func NewTodoID() string {
	return UUIDv7{}.NewID()
}

// NewTodo builds a Todo owned by owner.
// An empty id is replaced by a fresh UUIDv7.
func NewTodo(id, owner, title string) (Todo, error) {
	return NewTodoWithIDs(UUIDv7{}, id, owner, title)
}

// NewTodoWithIDs is NewTodo with the id source for empty ids supplied by
// the caller.
func NewTodoWithIDs(ids IDGenerator, id, owner, title string) (Todo, error) {
	if strings.TrimSpace(id) == "" {
		id = ids.NewID()
	}
	key, err := NormalizeKey(id)
	if err != nil {
		return Todo{}, fmt.Errorf("new todo: %w", err)
	}
	return Todo{
		ID:    key,
		Owner: norm.NFC.String(strings.TrimSpace(owner)),
		Title: title,
	}, nil
}

// NormalizeKey trims surrounding whitespace and applies NFC normalization.
// Returns ErrEmptyKey if nothing is left.
func NormalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return norm.NFC.String(key), nil
}
