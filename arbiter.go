package kbucket

// Arbiter resolves a duplicate-identifier admission: given the contact
// already stored (incumbent) and the one just offered (candidate), it
// returns exactly one of the two. Returning anything else is undefined.
type Arbiter func(incumbent, candidate Contact) Contact

// DefaultArbiter prefers the incumbent, Kademlia's "prefer old, live
// contacts" policy: a candidate sharing an already-admitted identifier is
// dropped unless the caller supplies its own Arbiter.
func DefaultArbiter(incumbent, candidate Contact) Contact {
	return incumbent
}
