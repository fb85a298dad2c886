/*
# kbucket

Kademlia DHT k-bucket routing table implemented as a binary tree.

A Distributed Hash Table (DHT) is a decentralized distributed system that
provides a lookup table similar to a hash table. kbucket is the routing
substrate for one: it organizes a bounded population of remote peer
Contacts by their XOR distance to a fixed local identifier, supports fast
nearest-neighbor lookup via RoutingTable.Closest, and applies Kademlia's
eviction/split policy when a bucket fills.

This package is deliberately minimal: it assumes a Contact consists of an
Id plus whatever other payload the caller wants to carry (address,
protocol, metadata). Routing uses the Id alone; the table reads Address
and VectorClock only to decide whether a re-offered contact with a known
Id is identical to the stored one, and stamps SeenAt. Network I/O, liveness probing, persistence and iterative
find-node traversal are out of scope — the table provides the Closest
primitive such a traversal would consume, not the traversal itself.

Notifications:

	table.added
		newContact Contact: the contact just admitted.
		Emitted only when newContact was not previously stored.

	table.review
		oldest Contacts: the longest-unseen contacts of an overflowing,
		non-splittable bucket.
		newest Contact: the candidate that could not be admitted.
		Emitted in place of a split when a "don't split" bucket is full;
		invites the receiver to liveness-check oldest and retry Add.

	table.removed
		contact Contact: the contact removed.

	table.updated
		old Contact: the contact previously stored under this id.
		new Contact: the contact that replaced it.
		Emitted when the arbiter resolved a duplicate-identifier admission
		in the candidate's favor.
*/
package kbucket
