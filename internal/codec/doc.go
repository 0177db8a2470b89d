// Package codec converts records to and from bytes.
//
// A Codec is deterministic on encode and fails with a DecodeError on
// malformed input. The concrete codecs here write the protobuf wire format
// with proto3 semantics:
//   - zero-valued scalar fields are omitted
//   - fields are written in ascending field-number order
//   - unknown fields are skipped on decode
//   - string fields must be valid UTF-8 in both directions
//
// Field numbers:
//
//	Account: name=1 email=2 display_name=3 roles=4
//	Todo:    id=1 owner=2 title=3 notes=4 done=5 priority=6 tags=7
package codec
