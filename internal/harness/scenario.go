package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kvrepo/internal/record"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// IDs selects how todos stored without an id are numbered:
	// sequential (default: todo-0001, todo-0002, ...) or uuid (UUIDv7).
	// Traces of uuid scenarios differ between runs.
	IDs string `yaml:"ids,omitempty"`

	// Steps are executed in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store contents. Optional.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single repository operation.
type Step struct {
	// Op is one of store, get, delete, corrupt.
	Op string `yaml:"op"`

	// Type selects the repository: account or todo.
	Type string `yaml:"type"`

	// Key is the natural key for get, delete and corrupt.
	// Empty keys are looked up as given.
	Key string `yaml:"key,omitempty"`

	// Account is the record to store when Type is account.
	Account *record.Account `yaml:"account,omitempty"`

	// Todo is the record to store when Type is todo.
	Todo *record.Todo `yaml:"todo,omitempty"`

	// Bytes is the hex-encoded payload written by corrupt.
	Bytes string `yaml:"bytes,omitempty"`

	// Expect validates the step outcome. If nil, any non-error outcome passes.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Found is the expected presence for get.
	Found *bool `yaml:"found,omitempty"`

	// Deleted is the expected return of delete.
	Deleted *bool `yaml:"deleted,omitempty"`

	// Error is the expected failure category: encode or decode.
	Error string `yaml:"error,omitempty"`

	// Account is the expected record returned by get on accounts.
	Account *record.Account `yaml:"account,omitempty"`

	// Todo is the expected record returned by get on todos.
	Todo *record.Todo `yaml:"todo,omitempty"`
}

// Assertion validates the final store contents.
type Assertion struct {
	// Type is one of entry_count, key_present, key_absent.
	Type string `yaml:"type"`

	// Record limits the assertion to one record type (account or todo).
	// Required for key_present and key_absent; optional for entry_count.
	Record string `yaml:"record,omitempty"`

	// Key is the natural key (key_present, key_absent).
	Key string `yaml:"key,omitempty"`

	// Count is the expected number of entries (entry_count).
	Count int `yaml:"count,omitempty"`
}

// Operation names.
const (
	OpStore   = "store"
	OpGet     = "get"
	OpDelete  = "delete"
	OpCorrupt = "corrupt"
)

// Record type names.
const (
	TypeAccount = "account"
	TypeTodo    = "todo"
)

// Todo id schemes.
const (
	IDsSequential = "sequential"
	IDsUUID       = "uuid"
)

// idScheme returns the id scheme, applying the default.
func (s *Scenario) idScheme() string {
	if s.IDs == "" {
		return IDsSequential
	}
	return s.IDs
}

// Expected error categories.
const (
	ErrorEncode = "encode"
	ErrorDecode = "decode"
)

// Assertion type constants.
const (
	AssertEntryCount = "entry_count"
	AssertKeyPresent = "key_present"
	AssertKeyAbsent  = "key_absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.IDs != "" && s.IDs != IDsSequential && s.IDs != IDsUUID {
		return fmt.Errorf("ids must be %q or %q, got %q", IDsSequential, IDsUUID, s.IDs)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its op and type.
func validateStep(index int, st *Step) error {
	if st.Type != TypeAccount && st.Type != TypeTodo {
		return fmt.Errorf("steps[%d]: type must be %q or %q, got %q", index, TypeAccount, TypeTodo, st.Type)
	}

	switch st.Op {
	case OpStore:
		if st.Type == TypeAccount && st.Account == nil {
			return fmt.Errorf("steps[%d]: account is required to store an account", index)
		}
		if st.Type == TypeTodo && st.Todo == nil {
			return fmt.Errorf("steps[%d]: todo is required to store a todo", index)
		}
		if st.Key != "" {
			return fmt.Errorf("steps[%d]: key is derived from the record for store", index)
		}
	case OpGet, OpDelete:
		if st.Account != nil || st.Todo != nil {
			return fmt.Errorf("steps[%d]: record payload is only valid for store", index)
		}
	case OpCorrupt:
		if _, err := hex.DecodeString(st.Bytes); err != nil {
			return fmt.Errorf("steps[%d]: bytes must be hex: %w", index, err)
		}
		if st.Expect != nil {
			return fmt.Errorf("steps[%d]: corrupt takes no expect clause", index)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.Op != OpCorrupt && st.Bytes != "" {
		return fmt.Errorf("steps[%d]: bytes is only valid for corrupt", index)
	}

	if st.Expect != nil {
		return validateExpect(index, st)
	}
	return nil
}

// validateExpect checks that the expect clause fits the step's op.
func validateExpect(index int, st *Step) error {
	e := st.Expect

	switch e.Error {
	case "", ErrorEncode, ErrorDecode:
	default:
		return fmt.Errorf("steps[%d].expect: error must be %q or %q, got %q", index, ErrorEncode, ErrorDecode, e.Error)
	}

	if e.Found != nil && st.Op != OpGet {
		return fmt.Errorf("steps[%d].expect: found is only valid for get", index)
	}
	if e.Deleted != nil && st.Op != OpDelete {
		return fmt.Errorf("steps[%d].expect: deleted is only valid for delete", index)
	}
	if (e.Account != nil || e.Todo != nil) && st.Op != OpGet {
		return fmt.Errorf("steps[%d].expect: record is only valid for get", index)
	}
	if e.Account != nil && st.Type != TypeAccount {
		return fmt.Errorf("steps[%d].expect: account given for a %s step", index, st.Type)
	}
	if e.Todo != nil && st.Type != TypeTodo {
		return fmt.Errorf("steps[%d].expect: todo given for a %s step", index, st.Type)
	}
	if e.Error != "" && (e.Account != nil || e.Todo != nil || e.Found != nil) {
		return fmt.Errorf("steps[%d].expect: error excludes found and record", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Record != "" && a.Record != TypeAccount && a.Record != TypeTodo {
		return fmt.Errorf("assertions[%d]: record must be %q or %q, got %q", index, TypeAccount, TypeTodo, a.Record)
	}

	switch a.Type {
	case AssertEntryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for entry_count", index)
		}
	case AssertKeyPresent, AssertKeyAbsent:
		if a.Record == "" {
			return fmt.Errorf("assertions[%d]: record is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
