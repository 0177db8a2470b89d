package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kvrepo/internal/record"
)

// TraceSnapshot captures what a golden file records for a scenario.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
	Entries      []string     `json:"entries"`
}

// MarshalSnapshot renders a snapshot as indented JSON with HTML escaping
// disabled and every string NFC normalized. Field order follows the struct
// definitions, so output is stable.
func MarshalSnapshot(s TraceSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.canonical()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonical returns a copy of s with all strings NFC normalized.
func (s TraceSnapshot) canonical() TraceSnapshot {
	out := TraceSnapshot{
		ScenarioName: norm.NFC.String(s.ScenarioName),
		Trace:        make([]TraceEvent, len(s.Trace)),
		Entries:      make([]string, len(s.Entries)),
	}
	for i, ev := range s.Trace {
		ev.Key = norm.NFC.String(ev.Key)
		ev.StoreKey = norm.NFC.String(ev.StoreKey)
		ev.Record = canonicalRecord(ev.Record)
		out.Trace[i] = ev
	}
	for i, key := range s.Entries {
		out.Entries[i] = norm.NFC.String(key)
	}
	return out
}

func canonicalRecord(rec any) any {
	switch r := rec.(type) {
	case *record.Account:
		c := r.Canonical()
		return &c
	case *record.Todo:
		c := r.Canonical()
		return &c
	}
	return rec
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Entries:      result.Entries,
	})
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
