package genarena

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExhausted is returned by the fallible insert family when the
	// arena already holds the maximum representable number of slots.
	ErrCapacityExhausted = errors.New("genarena: capacity exhausted")

	// ErrAliasedIndices is returned by Get2 when both indices name the same
	// physical slot, which would hand out two views into one element.
	ErrAliasedIndices = errors.New("genarena: indices alias the same slot")
)

// SnapshotFormatError indicates that snapshot data could not be decoded.
//
// A failed decode never produces a partially built arena; the destination is
// left untouched. The original underlying error (if any) can be accessed via
// errors.Unwrap.
type SnapshotFormatError struct {
	Reason string
	cause  error
}

func (e *SnapshotFormatError) Error() string {
	return fmt.Sprintf("genarena: malformed snapshot: %s", e.Reason)
}

func (e *SnapshotFormatError) Unwrap() error { return e.cause }

func decodeErrorf(cause error, format string, args ...any) error {
	return &SnapshotFormatError{Reason: fmt.Sprintf(format, args...), cause: cause}
}
