package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/kvrepo/internal/codec"
	"github.com/roach88/kvrepo/internal/kv"
	"github.com/roach88/kvrepo/internal/record"
	"github.com/roach88/kvrepo/internal/repository"
	"github.com/roach88/kvrepo/internal/testutil"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store    *kv.Store
	accounts *repository.KeyValue[record.Account]
	todos    *repository.KeyValue[record.Todo]
	clock    *testutil.Sequence
	ids      record.IDGenerator
	logger   *slog.Logger
}

// Run executes a scenario with logging suppressed.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Each run uses a fresh store for isolation. Step expectation failures and
// assertion failures are reported in the result, not as an error; the error
// return is reserved for failures to set up the run.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h, err := newHarness(scenario, logger)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("store ready", "prefixes", h.store.Prefixes(), "ids", scenario.idScheme())

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	for _, errMsg := range EvaluateAssertions(h.store, scenario.Assertions) {
		result.AddError(errMsg)
	}
	result.Entries = h.store.Keys()
	result.Keys = map[string][]string{
		TypeAccount: h.accounts.Keys(),
		TypeTodo:    h.todos.Keys(),
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"steps", h.clock.Current(),
		"accounts", len(result.Keys[TypeAccount]),
		"todos", len(result.Keys[TypeTodo]),
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func newHarness(scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	store := kv.New()
	accounts, err := repository.NewAccounts(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create account repository: %w", err)
	}
	todos, err := repository.NewTodos(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo repository: %w", err)
	}
	return &Harness{
		store:    store,
		accounts: accounts,
		todos:    todos,
		clock:    testutil.NewSequence(),
		ids:      newIDGenerator(scenario.idScheme()),
		logger:   logger,
	}, nil
}

func newIDGenerator(scheme string) record.IDGenerator {
	if scheme == IDsUUID {
		return record.UUIDv7{}
	}
	return testutil.NewSequentialIDs("")
}

// normalizeStep builds store payloads the way the record constructors do
// and normalizes lookup keys to match: natural keys are trimmed and NFC
// normalized, and a todo without an id gets one from the run's generator.
// A key that is empty after trimming is left as given.
func (h *Harness) normalizeStep(step Step) Step {
	switch {
	case step.Op == OpStore && step.Account != nil:
		acct := step.Account.Canonical()
		if name, err := record.NormalizeKey(acct.Name); err == nil {
			acct.Name = name
		}
		step.Account = &acct

	case step.Op == OpStore && step.Todo != nil:
		in := step.Todo.Canonical()
		todo, err := record.NewTodoWithIDs(h.ids, in.ID, in.Owner, in.Title)
		if err != nil {
			// Only an empty generated id gets here; store the payload as given.
			todo = in
		}
		todo.Notes, todo.Done, todo.Priority, todo.Tags = in.Notes, in.Done, in.Priority, in.Tags
		step.Todo = &todo

	default:
		step.Key = lookupKey(step.Key)
	}
	return step
}

// lookupKey normalizes a key given to get, delete, corrupt or an assertion.
func lookupKey(key string) string {
	if normalized, err := record.NormalizeKey(key); err == nil {
		return normalized
	}
	return key
}

// outcome is what a step did, before expectations are applied.
type outcome struct {
	name    string
	key     string
	found   bool
	deleted bool
	record  any
	err     error
}

// executeStep runs one step, traces it and checks its expect clause.
func (h *Harness) executeStep(index int, step Step, result *Result) {
	seq := h.clock.Next()

	step = h.normalizeStep(step)

	var out outcome
	switch step.Type {
	case TypeAccount:
		out = runStep(h.store, h.accounts, step, step.Account)
	case TypeTodo:
		out = runStep(h.store, h.todos, step, step.Todo)
	}

	result.AddTrace(TraceEvent{
		Seq:      seq,
		Op:       step.Op,
		Type:     step.Type,
		Key:      out.key,
		StoreKey: h.storeKey(step.Type, out.key),
		Outcome:  out.name,
		Record:   out.record,
	})

	h.logger.Debug("step executed",
		"seq", seq,
		"op", step.Op,
		"type", step.Type,
		"key", out.key,
		"outcome", out.name,
	)
	if out.err != nil {
		h.logger.Debug("step error", "seq", seq, "error", out.err)
	}

	for _, msg := range checkExpect(step, out) {
		result.AddError(fmt.Sprintf("steps[%d] (%s %s %q): %s", index, step.Op, step.Type, out.key, msg))
	}
}

func (h *Harness) storeKey(typ, key string) string {
	if typ == TypeAccount {
		return h.accounts.StoreKey(key)
	}
	return h.todos.StoreKey(key)
}

// runStep executes step against repo. rec is the payload for store.
func runStep[T any](store *kv.Store, repo *repository.KeyValue[T], step Step, rec *T) outcome {
	switch step.Op {
	case OpStore:
		if rec == nil {
			return outcome{name: "error", err: fmt.Errorf("no %s record to store", step.Type)}
		}
		key := naturalKey(*rec)
		if err := repo.Store(*rec); err != nil {
			return outcome{name: errorOutcome(err), key: key, err: err}
		}
		return outcome{name: OutcomeStored, key: key}

	case OpGet:
		got, found, err := repo.GetByID(step.Key)
		if err != nil {
			return outcome{name: errorOutcome(err), key: step.Key, err: err}
		}
		if !found {
			return outcome{name: OutcomeNotFound, key: step.Key}
		}
		return outcome{name: OutcomeFound, key: step.Key, found: true, record: &got}

	case OpDelete:
		deleted, err := repo.Delete(step.Key)
		if err != nil {
			return outcome{name: errorOutcome(err), key: step.Key, err: err}
		}
		if !deleted {
			return outcome{name: OutcomeAbsent, key: step.Key}
		}
		return outcome{name: OutcomeDeleted, key: step.Key, deleted: true}

	case OpCorrupt:
		data, err := hex.DecodeString(step.Bytes)
		if err != nil {
			return outcome{name: "error", key: step.Key, err: fmt.Errorf("corrupt bytes: %w", err)}
		}
		store.Put(repo.StoreKey(step.Key), data)
		return outcome{name: OutcomeInjected, key: step.Key}
	}

	return outcome{name: "unknown", key: step.Key, err: fmt.Errorf("unknown op %q", step.Op)}
}

// naturalKey extracts the natural key of a bundled record type.
func naturalKey(rec any) string {
	switch r := rec.(type) {
	case record.Account:
		return record.AccountKey(r)
	case record.Todo:
		return record.TodoKey(r)
	}
	return ""
}

func errorOutcome(err error) string {
	switch {
	case codec.IsEncodeError(err):
		return OutcomeEncodeError
	case codec.IsDecodeError(err):
		return OutcomeDecodeError
	}
	return "error"
}

// checkExpect compares a step outcome against its expect clause.
func checkExpect(step Step, out outcome) []string {
	e := step.Expect
	if e == nil {
		if out.err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", out.err)}
		}
		return nil
	}

	var errs []string
	switch e.Error {
	case ErrorEncode:
		if out.name != OutcomeEncodeError {
			errs = append(errs, fmt.Sprintf("expected encode error, got %s", out.name))
		}
		return errs
	case ErrorDecode:
		if out.name != OutcomeDecodeError {
			errs = append(errs, fmt.Sprintf("expected decode error, got %s", out.name))
		}
		return errs
	}

	if out.err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", out.err)}
	}

	if e.Found != nil && *e.Found != out.found {
		errs = append(errs, fmt.Sprintf("expected found=%t, got found=%t", *e.Found, out.found))
	}
	if e.Deleted != nil && *e.Deleted != out.deleted {
		errs = append(errs, fmt.Sprintf("expected deleted=%t, got deleted=%t", *e.Deleted, out.deleted))
	}

	var want any
	switch {
	case e.Account != nil:
		want = e.Account
	case e.Todo != nil:
		want = e.Todo
	}
	if want != nil {
		if !out.found {
			errs = append(errs, "expected a record, got none")
		} else if equal, err := sameRecord(want, out.record); err != nil {
			errs = append(errs, fmt.Sprintf("compare records: %v", err))
		} else if !equal {
			errs = append(errs, fmt.Sprintf("expected record %+v, got %+v", deref(want), deref(out.record)))
		}
	}

	return errs
}

// sameRecord compares two records by their encoded form, so that nil and
// empty repeated fields compare equal, as they do on the wire.
func sameRecord(want, got any) (bool, error) {
	wantBytes, err := encodeRecord(want)
	if err != nil {
		return false, err
	}
	gotBytes, err := encodeRecord(got)
	if err != nil {
		return false, err
	}
	return bytes.Equal(wantBytes, gotBytes), nil
}

func encodeRecord(rec any) ([]byte, error) {
	switch r := rec.(type) {
	case *record.Account:
		return codec.AccountCodec{}.Encode(*r)
	case *record.Todo:
		return codec.TodoCodec{}.Encode(*r)
	}
	return nil, fmt.Errorf("unsupported record type %T", rec)
}

func deref(rec any) any {
	switch r := rec.(type) {
	case *record.Account:
		return *r
	case *record.Todo:
		return *r
	}
	return rec
}
