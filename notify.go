package kbucket

// ReviewEvent is delivered when Add concludes "not added, full, cannot
// split": Oldest carries the min(ContactsToPing, len(bucket)) longest-
// unseen contacts of the overflowing bucket, and Newest is the rejected
// candidate. It invites the receiver to liveness-check Oldest and, if any
// are dead, Remove them and retry Add(Newest).
type ReviewEvent struct {
	Oldest Contacts
	Newest Contact
}

// Event names emitted on a RoutingTable's emitter. Handlers registered
// for these run synchronously on the calling goroutine of Add/Remove,
// after the table's write lock has already been released.
const (
	EventAdded    = "table.added"
	EventRemoved  = "table.removed"
	EventUpdated  = "table.updated"
	EventReviewed = "table.review"
)
