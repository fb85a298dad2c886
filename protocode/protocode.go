// Package protocode is the small protocol-code table a link record names
// its payload encoding with. It wraps multiformats/go-multicodec's
// registered code space rather than inventing a parallel one.
package protocode

import "github.com/multiformats/go-multicodec"

// ID identifies a content/protocol encoding from multicodec's registered
// 64-bit code space.
type ID = multicodec.Code

// Well-known codes this repository's contacts and link records may carry.
const (
	Raw      ID = multicodec.Raw
	DagPb    ID = multicodec.DagPb
	DagCbor  ID = multicodec.DagCbor
	Sha1     ID = multicodec.Sha1
	Sha2_256 ID = multicodec.Sha2_256
	Identity ID = multicodec.Identity
)

var names = map[string]ID{
	"raw":      Raw,
	"dag-pb":   DagPb,
	"dag-cbor": DagCbor,
	"sha1":     Sha1,
	"sha2-256": Sha2_256,
	"identity": Identity,
}

// Lookup resolves a well-known protocol-code name, e.g. "dag-pb".
func Lookup(name string) (ID, bool) {
	id, ok := names[name]
	return id, ok
}

// Name returns id's canonical multicodec name.
func Name(id ID) string {
	return id.String()
}
