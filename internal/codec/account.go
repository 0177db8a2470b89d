package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/roach88/kvrepo/internal/record"
)

const (
	accountName        protowire.Number = 1
	accountEmail       protowire.Number = 2
	accountDisplayName protowire.Number = 3
	accountRoles       protowire.Number = 4
)

// AccountCodec encodes record.Account in protobuf wire format.
// It is stateless and safe for concurrent use.
type AccountCodec struct{}

// Name returns the codec identifier.
func (AccountCodec) Name() string {
	return "account"
}

// Encode serializes an account.
func (c AccountCodec) Encode(a record.Account) ([]byte, error) {
	e := encoder{buf: make([]byte, 0, 32)}
	e.string(accountName, "name", a.Name)
	e.string(accountEmail, "email", a.Email)
	e.string(accountDisplayName, "display_name", a.DisplayName)
	e.strings(accountRoles, "roles", a.Roles)
	if e.err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: e.err}
	}
	return e.buf, nil
}

// Decode deserializes an account.
func (c AccountCodec) Decode(data []byte) (record.Account, error) {
	var a record.Account
	r := reader{data: data}
	for r.more() {
		start := r.off
		num, typ, err := r.tag()
		if err != nil {
			return record.Account{}, &DecodeError{Codec: c.Name(), Offset: start, Err: err}
		}

		switch num {
		case accountName:
			a.Name, err = r.string("name", typ)
		case accountEmail:
			a.Email, err = r.string("email", typ)
		case accountDisplayName:
			a.DisplayName, err = r.string("display_name", typ)
		case accountRoles:
			var role string
			role, err = r.string("roles", typ)
			if err == nil {
				a.Roles = append(a.Roles, role)
			}
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return record.Account{}, &DecodeError{Codec: c.Name(), Offset: start, Err: err}
		}
	}
	return a, nil
}
