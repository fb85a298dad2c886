package kbucket

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInvalidArgument is returned when a caller supplies a nil contact or
// an empty identifier. It never changes table state.
var ErrInvalidArgument = errors.New("kbucket: invalid argument")

func invalidArgument(reason string) error {
	return errors.Wrap(ErrInvalidArgument, reason)
}

// invariantViolation logs and panics: a violated invariant represents a
// bug in this package, not a caller error, and is never returned.
func invariantViolation(logger *zap.Logger, reason string) {
	logger.Error("invariant violated", zap.String("reason", reason))
	panic("kbucket: invariant violated: " + reason)
}
