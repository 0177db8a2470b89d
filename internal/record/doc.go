// Package record defines the domain records held by the repository.
//
// Each record type designates exactly one natural-key field:
//   - Account is keyed by Name
//   - Todo is keyed by ID
//
// Field validation lives in the constructors here. The repository stores
// whatever it is given and never inspects field contents.
//
// A nil and an empty repeated field (Roles, Tags) are the same value: both
// encode to nothing, and decoding yields nil. Canonical collapses empty
// slices to nil, so a.Canonical() is what a round trip through a codec
// returns for ASCII and already-NFC strings.
//
// All JSON and YAML tags use snake_case.
package record
