package kbucket

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/attilabuti/eventemitter/v2"
	"go.uber.org/zap"
)

// RoutingTable is the public façade over the k-bucket tree: it wires the
// identifier algebra, bucket, tree-navigation and arbiter components
// together under a single readers-writer lock and emits notifications
// after each Add and Remove. Clear emits no notification.
type RoutingTable struct {
	mutex sync.RWMutex

	localID           []byte
	contactsPerBucket int
	contactsToPing    int
	arbiter           Arbiter
	distanceFn        func(a, b []byte) *big.Int
	logger            *zap.Logger

	root *node

	emitter *eventemitter.Emitter
}

// New constructs a RoutingTable from cfg, applying documented defaults for
// any zero-valued field.
func New(cfg Config) (*RoutingTable, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	return &RoutingTable{
		localID:           cfg.LocalID,
		contactsPerBucket: cfg.ContactsPerBucket,
		contactsToPing:    cfg.ContactsToPing,
		arbiter:           cfg.Arbiter,
		distanceFn:        cfg.DistanceFn,
		logger:            cfg.Logger,
		root:              newLeaf(),
		emitter:           eventemitter.New(),
	}, nil
}

// LocalID returns the table's own identifier.
func (t *RoutingTable) LocalID() []byte {
	return t.localID
}

// On subscribes fn to the named event (EventAdded, EventRemoved,
// EventUpdated or EventReviewed). Handlers run synchronously on the
// calling goroutine of Add/Remove, after the table's write lock has
// already been released, so they may safely re-enter the table.
func (t *RoutingTable) On(event string, fn interface{}) {
	t.emitter.On(event, fn)
}

// OnReviewRequested subscribes fn to EventReviewed: the "review
// requested" notification, carrying the oldest contacts of an
// overflowing non-splittable bucket and the rejected candidate.
func (t *RoutingTable) OnReviewRequested(fn func(ReviewEvent)) {
	t.On(EventReviewed, fn)
}

// OnAdded subscribes fn to EventAdded.
func (t *RoutingTable) OnAdded(fn func(Contact)) {
	t.On(EventAdded, fn)
}

// OnRemoved subscribes fn to EventRemoved.
func (t *RoutingTable) OnRemoved(fn func(Contact)) {
	t.On(EventRemoved, fn)
}

// OnUpdated subscribes fn to EventUpdated.
func (t *RoutingTable) OnUpdated(fn func(old, new Contact)) {
	t.On(EventUpdated, fn)
}

type addOutcome int

const (
	outcomeAdded addOutcome = iota
	outcomeDropped
	outcomeUpdated
	outcomeReviewNeeded
)

// Add admits or refreshes contact c. It returns true if c (or the
// arbiter's chosen replacement) is now stored under c.Id, and an error
// only for invalid input — a full, non-splittable bucket is reported via
// a ReviewEvent, not an error, and Add returns false.
func (t *RoutingTable) Add(c Contact) (bool, error) {
	if len(c.Id) == 0 {
		return false, invalidArgument("contact id must not be empty")
	}

	t.mutex.Lock()
	outcome, old, applied, review := t.addLocked(c)
	t.mutex.Unlock()

	switch outcome {
	case outcomeAdded:
		t.emitter.EmitSync(EventAdded, applied)
		return true, nil
	case outcomeUpdated:
		t.emitter.EmitSync(EventUpdated, old, applied)
		return true, nil
	case outcomeReviewNeeded:
		t.emitter.EmitSync(EventReviewed, review)
		return false, nil
	default: // outcomeDropped
		return false, nil
	}
}

// addLocked performs the contact-admission algorithm under the write
// lock. It never emits: the caller emits after releasing the lock.
func (t *RoutingTable) addLocked(c Contact) (outcome addOutcome, old, applied Contact, review ReviewEvent) {
	leaf, depth := descend(t.root, c.Id)

	if i := leaf.contacts.indexOf(c.Id); i >= 0 {
		incumbent := leaf.contacts[i]
		chosen := t.arbiter(incumbent, c)

		sameAsIncumbent := equalIdentity(chosen, incumbent)
		sameAsCandidate := equalIdentity(chosen, c)

		if sameAsIncumbent && !sameAsCandidate {
			// Arbiter kept the incumbent and the candidate was a
			// genuinely different contact: drop the candidate.
			return outcomeDropped, Contact{}, Contact{}, ReviewEvent{}
		}

		chosen.SeenAt = time.Now()
		leaf.contacts = append(leaf.contacts[:i:i], leaf.contacts[i+1:]...)
		leaf.contacts = append(leaf.contacts, chosen)

		return outcomeUpdated, incumbent, chosen, ReviewEvent{}
	}

	if len(leaf.contacts) < t.contactsPerBucket {
		c.SeenAt = time.Now()
		leaf.contacts = append(leaf.contacts, c)

		if len(leaf.contacts) > t.contactsPerBucket {
			invariantViolation(t.logger, "bucket exceeded capacity after append")
		}

		return outcomeAdded, Contact{}, c, ReviewEvent{}
	}

	if leaf.doNotSplit {
		toPing := t.contactsToPing
		if toPing > len(leaf.contacts) {
			toPing = len(leaf.contacts)
		}

		oldest := make(Contacts, toPing)
		copy(oldest, leaf.contacts[:toPing])
		t.logger.Debug("review requested", zap.Int("depth", depth), zap.Int("oldest", toPing))

		return outcomeReviewNeeded, Contact{}, Contact{}, ReviewEvent{Oldest: oldest, Newest: c}
	}

	leaf.split(depth, t.localID)
	t.logger.Debug("bucket split", zap.Int("depth", depth))

	return t.addLocked(c)
}

// Remove deletes the contact with the given id, if present, and reports
// whether a removal occurred. It does not merge empty sibling buckets.
func (t *RoutingTable) Remove(id []byte) bool {
	t.mutex.Lock()

	leaf, _ := descend(t.root, id)
	i := leaf.contacts.indexOf(id)
	var removed Contact
	found := i >= 0
	if found {
		removed = leaf.contacts[i]
		leaf.contacts = append(leaf.contacts[:i:i], leaf.contacts[i+1:]...)
	}

	t.mutex.Unlock()

	if found {
		t.emitter.EmitSync(EventRemoved, removed)
	}

	return found
}

// Contains reports whether id names a currently-admitted contact.
func (t *RoutingTable) Contains(id []byte) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	leaf, _ := descend(t.root, id)
	return leaf.contacts.indexOf(id) >= 0
}

// TryGet returns the contact stored under id, if any.
func (t *RoutingTable) TryGet(id []byte) (Contact, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	leaf, _ := descend(t.root, id)
	i := leaf.contacts.indexOf(id)
	if i < 0 {
		return Contact{}, false
	}

	return leaf.contacts[i], true
}

// Distance returns the configured distance metric between a and b.
func (t *RoutingTable) Distance(a, b []byte) *big.Int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.distanceFn(a, b)
}

// Closest returns every currently-admitted contact ordered by ascending
// distance to id. Ties break by the snapshot's iteration order. The
// result is a materialized snapshot: later mutations do not affect it.
func (t *RoutingTable) Closest(id []byte) Contacts {
	return t.closestN(id, -1)
}

// ClosestToContact is Closest(c.Id), the "closest(contact)" overload of
// the external interface.
func (t *RoutingTable) ClosestToContact(c Contact) Contacts {
	return t.Closest(c.Id)
}

// ClosestN returns at most n contacts ordered by ascending distance to
// id. It is a convenience bound on top of Closest for callers (e.g. an
// iterative lookup) that only need the nearest few.
func (t *RoutingTable) ClosestN(id []byte, n int) Contacts {
	return t.closestN(id, n)
}

func (t *RoutingTable) closestN(id []byte, n int) Contacts {
	t.mutex.RLock()
	contacts := allContacts(t.root)
	distanceFn := t.distanceFn
	t.mutex.RUnlock()

	type ranked struct {
		contact  Contact
		distance *big.Int
	}

	rankedContacts := make([]ranked, len(contacts))
	for i, c := range contacts {
		rankedContacts[i] = ranked{contact: c, distance: distanceFn(c.Id, id)}
	}

	sort.SliceStable(rankedContacts, func(i, j int) bool {
		return rankedContacts[i].distance.Cmp(rankedContacts[j].distance) < 0
	})

	if n >= 0 && n < len(rankedContacts) {
		rankedContacts = rankedContacts[:n]
	}

	out := make(Contacts, len(rankedContacts))
	for i, r := range rankedContacts {
		out[i] = r.contact
	}

	return out
}

// Iterate returns a snapshot of every currently-admitted contact, in tree
// order. It does not hold the lock while the caller ranges over it.
func (t *RoutingTable) Iterate() Contacts {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return allContacts(t.root)
}

// Count returns the number of contacts currently admitted.
func (t *RoutingTable) Count() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return deepCount(t.root)
}

// Clear removes every contact, replacing the tree with a fresh empty leaf.
func (t *RoutingTable) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.root = newLeaf()
}
