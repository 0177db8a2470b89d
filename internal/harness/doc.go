// Package harness runs conformance scenarios against the repositories.
//
// A scenario is a YAML script of repository operations executed in order
// against a fresh kv.Store shared by the account and todo repositories.
// Each operation appends one event to the trace; step expectations and
// final assertions turn mismatches into result errors.
//
// # Scenario Format
//
//	name: account_lifecycle
//	description: "What this scenario validates"
//	steps:
//	  - op: store
//	    type: account
//	    account: { name: alice, email: alice@example.com }
//	  - op: get
//	    type: account
//	    key: alice
//	    expect:
//	      found: true
//	      account: { name: alice, email: alice@example.com }
//	  - op: delete
//	    type: account
//	    key: alice
//	    expect: { deleted: true }
//	  - op: corrupt
//	    type: todo
//	    key: t9
//	    bytes: "01"
//	  - op: get
//	    type: todo
//	    key: t9
//	    expect: { error: decode }
//	assertions:
//	  - type: entry_count
//	    count: 1
//	  - type: key_absent
//	    record: account
//	    key: alice
//
// # Operations
//
//   - store: encode and write the step's account or todo; a todo without
//     an id is numbered todo-0001, todo-0002, ... in store order, or gets a
//     UUIDv7 when the scenario sets ids: uuid
//   - get: read and decode the record under key
//   - delete: remove the record under key
//   - corrupt: write raw hex bytes under the type's store key, bypassing
//     the codec (simulates out-of-band corruption)
//
// Natural keys in payloads, step keys and assertion keys are trimmed and
// NFC normalized, as record.NormalizeKey does, so any spelling of a name
// addresses the same entry. Payload strings are NFC normalized too.
//
// # Assertion Types
//
//   - entry_count: number of entries, optionally limited to one record type
//   - key_present: an entry exists for record type and key
//   - key_absent: no entry exists for record type and key
//
// # Deterministic Testing
//
// Sequence numbers start at 1 for every run and no wall-clock time enters
// the trace, so identical scenarios produce identical traces. Generated todo ids
// come from a per-run counter for the same reason. Error text is kept out of
// the trace; only the outcome category is recorded.
package harness
