package harness

// Step outcomes recorded in the trace.
const (
	OutcomeStored      = "stored"
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeDeleted     = "deleted"
	OutcomeAbsent      = "absent"
	OutcomeInjected    = "injected"
	OutcomeEncodeError = "encode_error"
	OutcomeDecodeError = "decode_error"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"`
	Type     string `json:"type"`
	Key      string `json:"key"`
	StoreKey string `json:"store_key"`
	Outcome  string `json:"outcome"`

	// Record is the decoded record for a found get, nil otherwise.
	Record any `json:"record,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Entries lists the store keys left after the last step, sorted.
	Entries []string `json:"entries"`

	// Keys lists the natural keys left per record type, sorted.
	Keys map[string][]string `json:"keys"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Entries: []string{},
		Keys:    map[string][]string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
