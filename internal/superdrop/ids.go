package superdrop

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a superdroplet across reorderings of an ensemble. The
// zero value is the empty identity. IDs are never used for addressing.
type ID struct {
	value uint64
	set   bool
}

// IntID returns an integer identity.
func IntID(v uint64) ID {
	return ID{value: v, set: true}
}

func (id ID) Value() (uint64, bool) {
	return id.value, id.set
}

func (id ID) IsEmpty() bool {
	return !id.set
}

func (id ID) String() string {
	if !id.set {
		return "-"
	}
	return strconv.FormatUint(id.value, 10)
}

// IDGen hands out identities to newly created superdroplets.
type IDGen interface {
	Next() ID
}

// IntIDGen assigns monotonically increasing integer identities starting
// at zero. It is safe for concurrent use.
type IntIDGen struct {
	next atomic.Uint64
}

func (g *IntIDGen) Next() ID {
	return IntID(g.next.Add(1) - 1)
}

// EmptyIDGen assigns the empty identity to every superdroplet.
type EmptyIDGen struct{}

func (EmptyIDGen) Next() ID {
	return ID{}
}
