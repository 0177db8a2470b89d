// Package repository provides typed create-or-replace, point-lookup and
// delete over the shared kv.Store.
//
// # Key Scheme
//
// Every record type owns a namespace prefix. The physical key of a record is
//
//	StoreKey = prefix + naturalKey
//
// with prefixes "account:" and "todo:" for the bundled types. Prefixes are
// reserved on the store when a repository is constructed; overlapping
// prefixes are rejected with ErrPrefixCollision, so record types sharing one
// store can never address the same entry.
//
// # Encode/Decode on Access
//
// Records are held only in encoded form. Store encodes through the
// namespace's codec before writing; GetByID decodes after reading. Bytes
// written out of band (directly on the kv.Store) that fail to decode surface
// as a *codec.DecodeError on the next read, never as "not found".
//
// # Errors
//
//   - Store fails only with a wrapped *codec.EncodeError
//   - GetByID reports absence as found=false with a nil error
//   - Delete never fails under normal operation
//
// The repository performs no validation, logging, or retries.
package repository
