package codec

// Codec encodes and decodes a record of type T.
type Codec[T any] interface {
	// Encode serializes rec. Failures are reported as *EncodeError.
	Encode(rec T) ([]byte, error)

	// Decode deserializes data. Failures are reported as *DecodeError.
	Decode(data []byte) (T, error)

	// Name identifies the codec in error messages.
	Name() string
}
