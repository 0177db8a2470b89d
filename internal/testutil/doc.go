// Package testutil provides deterministic stand-ins for the sources of
// variation in a run: step sequence numbers and generated todo ids.
//
// The harness uses them so that the same scenario always produces a
// byte-identical trace, which golden snapshots depend on.
package testutil
