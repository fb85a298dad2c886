// Package maddr wraps github.com/multiformats/go-multiaddr so that a
// Contact's network address is a self-describing multiaddr rather than a
// bare host:port pair. It is a thin data envelope: parsing and equality
// only, no dialing or resolution.
package maddr

import (
	"github.com/multiformats/go-multiaddr"
	"github.com/pkg/errors"
)

// Parse parses s as a multiaddr string, e.g. "/ip4/127.0.0.1/tcp/4001".
func Parse(s string) (multiaddr.Multiaddr, error) {
	if s == "" {
		return nil, errors.New("maddr: empty address")
	}

	a, err := multiaddr.NewMultiaddr(s)
	if err != nil {
		return nil, errors.Wrapf(err, "maddr: parse %q", s)
	}

	return a, nil
}

// Equal reports whether a and b describe the same address. Either may be
// nil; two nils are equal, a nil and a non-nil are not.
func Equal(a, b multiaddr.Multiaddr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(b)
}
