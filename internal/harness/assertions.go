package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/kvrepo/internal/kv"
	"github.com/roach88/kvrepo/internal/repository"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Entries  []string // Store keys at evaluation time
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nStore entries:\n")
	for _, key := range e.Entries {
		fmt.Fprintf(&buf, "  %s\n", key)
	}
	return buf.String()
}

// prefixFor maps a record type name to its namespace prefix.
// An empty record type selects the whole store.
func prefixFor(recordType string) string {
	switch recordType {
	case TypeAccount:
		return repository.AccountPrefix
	case TypeTodo:
		return repository.TodoPrefix
	}
	return ""
}

// assertEntryCount checks the number of entries in a namespace or the whole store.
func assertEntryCount(store *kv.Store, assertion Assertion) error {
	keys := store.KeysWithPrefix(prefixFor(assertion.Record))
	if len(keys) == assertion.Count {
		return nil
	}

	scope := "store"
	if assertion.Record != "" {
		scope = assertion.Record + " namespace"
	}
	return &AssertionError{
		Type:     AssertEntryCount,
		Expected: fmt.Sprintf("%d entries in %s", assertion.Count, scope),
		Actual:   fmt.Sprintf("%d entries", len(keys)),
		Entries:  store.Keys(),
	}
}

// assertKey checks presence or absence of one entry.
func assertKey(store *kv.Store, assertion Assertion, wantPresent bool) error {
	storeKey := prefixFor(assertion.Record) + lookupKey(assertion.Key)
	_, present := store.Get(storeKey)
	if present == wantPresent {
		return nil
	}

	expected, actual := "present", "absent"
	if !wantPresent {
		expected, actual = actual, expected
	}
	return &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("%s %s", storeKey, expected),
		Actual:   actual,
		Entries:  store.Keys(),
	}
}

// EvaluateAssertions checks all assertions against the final store and
// returns one message per failure.
func EvaluateAssertions(store *kv.Store, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEntryCount:
			err = assertEntryCount(store, assertion)
		case AssertKeyPresent:
			err = assertKey(store, assertion, true)
		case AssertKeyAbsent:
			err = assertKey(store, assertion, false)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
