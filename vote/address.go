package vote

import (
	"encoding/json"
	"strings"
)

// Address is the opaque identity of a signer account. The controller
// never inspects it beyond emptiness and equality; ledger addresses are
// compared case-insensitively.
type Address string

var EmptyAddress Address = Address("")

func (a Address) String() string {
	return string(a)
}

func (a Address) IsEmpty() bool {
	return len(a) < 1
}

func (a Address) Equal(b Address) bool {
	return strings.EqualFold(string(a), string(b))
}

// Short renders the address the way account addresses are usually
// displayed, keeping head and tail.
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 10 {
		return s
	}

	return s[:6] + "..." + s[len(s)-4:]
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}
