package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const bundledScenarios = "../harness/testdata/scenarios"
const bundledGolden = "../harness/testdata/golden"

const passingScenario = `name: passing
description: store and read back a todo
steps:
  - op: store
    type: todo
    todo: { id: t1, owner: alice, title: write tests }
  - op: get
    type: todo
    key: t1
    expect:
      found: true
      todo: { id: t1, owner: alice, title: write tests }
assertions:
  - type: entry_count
    count: 1
`

const failingScenario = `name: failing
description: expects an entry that was never stored
steps:
  - op: get
    type: account
    key: bob
    expect: { found: true }
`

const invalidScenario = `name: invalid
description: unknown op
steps:
  - op: upsert
    type: account
    key: bob
`

// writeScenario writes content to dir/name and returns the path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
