package kbucket

import (
	"math/big"

	"go.uber.org/zap"
)

// DefaultContactsPerBucket is Kademlia's K: the default bucket capacity.
const DefaultContactsPerBucket = 20

// DefaultContactsToPing is the documented default number of oldest
// contacts offered for a liveness check when a non-splittable bucket
// overflows.
const DefaultContactsToPing = 3

// ContactsToPingDesktop is the platform-dependent default some desktop
// deployments of the source library used (6, rather than 3). It is never
// applied automatically; a caller opts in explicitly via Config.
const ContactsToPingDesktop = 6

// Config holds the construction parameters of a RoutingTable.
type Config struct {
	// ContactsPerBucket is Kademlia's K. Must be >= 1; defaults to
	// DefaultContactsPerBucket.
	ContactsPerBucket int

	// ContactsToPing is how many of a full bucket's oldest contacts are
	// offered in a review notification. Must be >= 1; defaults to
	// DefaultContactsToPing. Values above ContactsPerBucket are
	// truncated when a notification is emitted, not at construction.
	ContactsToPing int

	// LocalID is the table owner's own identifier. If empty, a 20-byte
	// value is generated from a cryptographic random source when defaults
	// are applied, that is, once by New at construction rather than on
	// first use, and is thereafter immutable for the table's lifetime.
	LocalID []byte

	// Arbiter resolves duplicate-identifier admissions. Defaults to
	// DefaultArbiter.
	Arbiter Arbiter

	// DistanceFn overrides the default XOR distance metric. Defaults to
	// Distance.
	DistanceFn func(a, b []byte) *big.Int

	// Logger receives debug-level notes on splits and review emissions,
	// and error-level notes immediately before an invariant panic.
	// Defaults to a no-op logger; library code must never log by
	// default.
	Logger *zap.Logger
}

func (c Config) withDefaults() (Config, error) {
	out := c

	if out.ContactsPerBucket < 1 {
		out.ContactsPerBucket = DefaultContactsPerBucket
	}

	if out.ContactsToPing < 1 {
		out.ContactsToPing = DefaultContactsToPing
	}

	if len(out.LocalID) == 0 {
		id, err := GenerateID()
		if err != nil {
			return Config{}, err
		}

		out.LocalID = id
	}

	if out.Arbiter == nil {
		out.Arbiter = DefaultArbiter
	}

	if out.DistanceFn == nil {
		out.DistanceFn = Distance
	}

	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}

	return out, nil
}
