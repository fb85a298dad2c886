package kbucket

import (
	"bytes"
	"time"

	"github.com/multiformats/go-multiaddr"

	"github.com/liuham-dynamics/Peer-Infrastructure/maddr"
)

// Contact is an opaque record the table stores, identified solely by its
// non-empty Id. The table stamps SeenAt on admission or refresh; every
// other field is payload the table forwards unchanged.
type Contact struct {
	// Id is the node identifier. Identity is byte-equality on Id alone.
	Id []byte

	// Address is the self-describing network address this contact
	// advertises. The table consults it only through equalIdentity, to
	// tell a re-offered identical contact from a divergent one.
	Address multiaddr.Multiaddr

	// SeenAt is the time this contact was last admitted or refreshed.
	SeenAt time.Time

	// VectorClock lets an application-supplied Arbiter decide which of
	// two same-identifier contacts is more current.
	VectorClock int

	// Metadata is optional satellite data, untouched by the table.
	Metadata map[string]any
}

// Contacts is an insertion-ordered sequence of Contact: oldest at index 0,
// most-recently-touched at the tail.
type Contacts []Contact

// indexOf returns the position of the contact with the given id, or -1.
func (c Contacts) indexOf(id []byte) int {
	for i, contact := range c {
		if bytes.Equal(contact.Id, id) {
			return i
		}
	}

	return -1
}

// equalIdentity reports whether a and b name the same contact and carry
// identical state. VectorClock and Address participate; Metadata and
// SeenAt do not.
func equalIdentity(a, b Contact) bool {
	if !bytes.Equal(a.Id, b.Id) {
		return false
	}

	if a.VectorClock != b.VectorClock {
		return false
	}

	if !maddr.Equal(a.Address, b.Address) {
		return false
	}

	return true
}
