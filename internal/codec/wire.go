package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	errInvalidUTF8 = errors.New("string field contains invalid UTF-8")
	errWireType    = errors.New("unexpected wire type")
)

// encoder appends proto3 fields to buf. The first error sticks and
// turns every later call into a no-op.
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) string(num protowire.Number, field, v string) {
	if e.err != nil || v == "" {
		return
	}
	e.appendString(num, field, v)
}

// strings writes every element, empty ones included, as repeated fields do.
func (e *encoder) strings(num protowire.Number, field string, vs []string) {
	for i, v := range vs {
		if e.err != nil {
			return
		}
		e.appendString(num, fmt.Sprintf("%s[%d]", field, i), v)
	}
}

func (e *encoder) appendString(num protowire.Number, field, v string) {
	if !utf8.ValidString(v) {
		e.err = fmt.Errorf("%s: %w", field, errInvalidUTF8)
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if e.err != nil || !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *encoder) int64(num protowire.Number, v int64) {
	if e.err != nil || v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

// reader walks the fields of a single message.
type reader struct {
	data []byte
	off  int
}

func (r *reader) more() bool {
	return r.off < len(r.data)
}

func (r *reader) tag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(r.data[r.off:])
	if n < 0 {
		return 0, 0, fmt.Errorf("tag: %w", protowire.ParseError(n))
	}
	r.off += n
	return num, typ, nil
}

func (r *reader) string(field string, typ protowire.Type) (string, error) {
	if typ != protowire.BytesType {
		return "", fmt.Errorf("%s: %w %d", field, errWireType, typ)
	}
	v, n := protowire.ConsumeString(r.data[r.off:])
	if n < 0 {
		return "", fmt.Errorf("%s: %w", field, protowire.ParseError(n))
	}
	if !utf8.ValidString(v) {
		return "", fmt.Errorf("%s: %w", field, errInvalidUTF8)
	}
	r.off += n
	return v, nil
}

func (r *reader) varint(field string, typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("%s: %w %d", field, errWireType, typ)
	}
	v, n := protowire.ConsumeVarint(r.data[r.off:])
	if n < 0 {
		return 0, fmt.Errorf("%s: %w", field, protowire.ParseError(n))
	}
	r.off += n
	return v, nil
}

// skip consumes the value of an unknown field.
func (r *reader) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, r.data[r.off:])
	if n < 0 {
		return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
	}
	r.off += n
	return nil
}
