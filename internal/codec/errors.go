package codec

import (
	"errors"
	"fmt"
)

// EncodeError reports that a record could not be serialized.
type EncodeError struct {
	// Codec is the Name of the codec that failed.
	Codec string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s encode: %v", e.Codec, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError reports that stored bytes could not be deserialized.
// It signals corruption or a codec mismatch, never an absent record.
type DecodeError struct {
	// Codec is the Name of the codec that failed.
	Codec string

	// Offset is the byte offset where decoding stopped, or -1 if unknown.
	Offset int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s decode at offset %d: %v", e.Codec, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s decode: %v", e.Codec, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsEncodeError returns true if err is or wraps an *EncodeError.
func IsEncodeError(err error) bool {
	var ee *EncodeError
	return errors.As(err, &ee)
}

// IsDecodeError returns true if err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
