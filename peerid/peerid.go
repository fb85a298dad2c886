// Package peerid derives the fixed-length routing identifiers consumed by
// the kbucket core from multihash-wrapped digests, the way a DHT derives a
// node's key by hashing its peer ID (see the ConvertPeerID pattern in
// go-libp2p-kbucket). It is a thin data envelope: it never touches the
// routing table itself.
package peerid

import (
	"crypto/rand"
	"crypto/sha1"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// Identifier is the fixed-length byte string the kbucket core keys on.
type Identifier []byte

// String renders the identifier as a base58 string, the conventional
// human-readable form for multihash-derived peer identifiers.
func (id Identifier) String() string {
	return base58.Encode(id)
}

// Generate produces a fresh 160-bit identifier by SHA-1 hashing 20 random
// bytes from a cryptographic source, matching the core's default local-id
// policy.
func Generate() (Identifier, error) {
	seed := make([]byte, 20)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(err, "peerid: generate")
	}

	sum := sha1.Sum(seed)
	return Identifier(sum[:]), nil
}

// FromMultihash unwraps a multihash-encoded digest into an Identifier,
// the shape a DHT receives peer keys in over the wire.
func FromMultihash(mh multihash.Multihash) (Identifier, error) {
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return nil, errors.Wrap(err, "peerid: decode multihash")
	}

	return Identifier(decoded.Digest), nil
}

// ToMultihash wraps the already-computed digest id under the given hash
// function code (e.g. multihash.SHA1, multihash.SHA2_256).
func ToMultihash(id Identifier, code uint64) (multihash.Multihash, error) {
	mh, err := multihash.Encode(id, code)
	if err != nil {
		return nil, errors.Wrap(err, "peerid: encode multihash")
	}

	return mh, nil
}

// FromBase58 parses a base58-encoded identifier string.
func FromBase58(s string) (Identifier, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "peerid: decode base58")
	}

	return Identifier(b), nil
}

// MultibaseString renders id with an explicit self-describing multibase
// prefix, for callers that need the encoding to travel with the string
// rather than being assumed (base58 alone does not say which base it is).
func (id Identifier) MultibaseString(enc multibase.Encoding) (string, error) {
	s, err := multibase.Encode(enc, id)
	if err != nil {
		return "", errors.Wrap(err, "peerid: encode multibase")
	}

	return s, nil
}

// FromMultibaseString parses a self-describing multibase string produced
// by MultibaseString.
func FromMultibaseString(s string) (Identifier, error) {
	_, b, err := multibase.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "peerid: decode multibase")
	}

	return Identifier(b), nil
}
