package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/roach88/kvrepo/internal/record"
)

const (
	todoID       protowire.Number = 1
	todoOwner    protowire.Number = 2
	todoTitle    protowire.Number = 3
	todoNotes    protowire.Number = 4
	todoDone     protowire.Number = 5
	todoPriority protowire.Number = 6
	todoTags     protowire.Number = 7
)

// TodoCodec encodes record.Todo in protobuf wire format.
// It is stateless and safe for concurrent use.
type TodoCodec struct{}

// Name returns the codec identifier.
func (TodoCodec) Name() string {
	return "todo"
}

// Encode serializes a todo.
func (c TodoCodec) Encode(t record.Todo) ([]byte, error) {
	e := encoder{buf: make([]byte, 0, 64)}
	e.string(todoID, "id", t.ID)
	e.string(todoOwner, "owner", t.Owner)
	e.string(todoTitle, "title", t.Title)
	e.string(todoNotes, "notes", t.Notes)
	e.bool(todoDone, t.Done)
	e.int64(todoPriority, t.Priority)
	e.strings(todoTags, "tags", t.Tags)
	if e.err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: e.err}
	}
	return e.buf, nil
}

// Decode deserializes a todo.
func (c TodoCodec) Decode(data []byte) (record.Todo, error) {
	var t record.Todo
	r := reader{data: data}
	for r.more() {
		start := r.off
		num, typ, err := r.tag()
		if err != nil {
			return record.Todo{}, &DecodeError{Codec: c.Name(), Offset: start, Err: err}
		}

		var v uint64
		switch num {
		case todoID:
			t.ID, err = r.string("id", typ)
		case todoOwner:
			t.Owner, err = r.string("owner", typ)
		case todoTitle:
			t.Title, err = r.string("title", typ)
		case todoNotes:
			t.Notes, err = r.string("notes", typ)
		case todoDone:
			v, err = r.varint("done", typ)
			t.Done = protowire.DecodeBool(v)
		case todoPriority:
			v, err = r.varint("priority", typ)
			t.Priority = int64(v)
		case todoTags:
			var tag string
			tag, err = r.string("tags", typ)
			if err == nil {
				t.Tags = append(t.Tags, tag)
			}
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return record.Todo{}, &DecodeError{Codec: c.Name(), Offset: start, Err: err}
		}
	}
	return t, nil
}

var (
	_ Codec[record.Account] = AccountCodec{}
	_ Codec[record.Todo]    = TodoCodec{}
)
