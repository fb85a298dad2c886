// Package cidlink encodes a routing identifier and its advertised address
// as a CIDv1 "link record" over a dag-pb envelope — the shape a DHT lookup
// result hands back as a provider pointer. It is a thin data envelope
// (straightforward codecs over multiaddr, multihash and dag-pb framing);
// it has no knowledge of the routing table itself.
package cidlink

import (
	"bytes"

	"github.com/ipfs/go-cid"
	dagpb "github.com/ipld/go-codec-dagpb"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/multiformats/go-multiaddr"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"

	"github.com/liuham-dynamics/Peer-Infrastructure/protocode"
)

// Encode builds a CIDv1 link record whose dag-pb payload carries
// identifier as its Data field and addr's string form as a single link
// name. The record uses the identity multihash so Decode can recover the
// payload directly from the CID without a separate block store.
func Encode(identifier []byte, addr multiaddr.Multiaddr) (cid.Cid, error) {
	if len(identifier) == 0 {
		return cid.Undef, errors.New("cidlink: empty identifier")
	}

	linkName := ""
	if addr != nil {
		linkName = addr.String()
	}

	node, err := qp.BuildMap(dagpb.Type.PBNode, 2, func(ma ipld.MapAssembler) {
		qp.MapEntry(ma, "Data", qp.Bytes(identifier))
		qp.MapEntry(ma, "Links", qp.List(1, func(la ipld.ListAssembler) {
			qp.ListEntry(la, qp.Map(1, func(lma ipld.MapAssembler) {
				qp.MapEntry(lma, "Name", qp.String(linkName))
			}))
		}))
	})
	if err != nil {
		return cid.Undef, errors.Wrap(err, "cidlink: build dag-pb node")
	}

	var buf bytes.Buffer
	if err := dagpb.Encode(node, &buf); err != nil {
		return cid.Undef, errors.Wrap(err, "cidlink: encode dag-pb")
	}

	prefix := cid.Prefix{
		Version:  1,
		Codec:    uint64(protocode.DagPb),
		MhType:   multihash.IDENTITY,
		MhLength: -1,
	}

	c, err := prefix.Sum(buf.Bytes())
	if err != nil {
		return cid.Undef, errors.Wrap(err, "cidlink: sum cid")
	}

	return c, nil
}

// Decode recovers the identifier carried inside a CID produced by Encode.
// It fails for any CID that does not use the identity multihash, since
// the raw dag-pb bytes are not otherwise recoverable from the CID alone.
func Decode(c cid.Cid) ([]byte, error) {
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "cidlink: decode multihash")
	}

	if decoded.Code != multihash.IDENTITY {
		return nil, errors.New("cidlink: not a self-describing identity CID")
	}

	nb := dagpb.Type.PBNode.NewBuilder()
	if err := dagpb.Decode(nb, bytes.NewReader(decoded.Digest)); err != nil {
		return nil, errors.Wrap(err, "cidlink: decode dag-pb")
	}
	node := nb.Build()

	data, err := node.LookupByString("Data")
	if err != nil {
		return nil, errors.Wrap(err, "cidlink: missing Data field")
	}

	bytesNode, err := data.AsBytes()
	if err != nil {
		return nil, errors.Wrap(err, "cidlink: Data is not bytes")
	}

	return bytesNode, nil
}
