package lib

import (
	"github.com/pkg/errors"
)

var (
	// ErrCapacityExceeded means the segment store is full. It is a
	// back-pressure signal: the caller should stop scheduling new sends
	// until acknowledgements free up space.
	ErrCapacityExceeded = errors.New("segment store capacity exceeded")

	// ErrRetryLimitExceeded means a segment hit its retransmission ceiling
	// and will not be retried any further. For a real connection this is a
	// connection-level failure.
	ErrRetryLimitExceeded = errors.New("segment retry limit exceeded")

	// ErrInvalidAck means the acknowledgment number falls outside the
	// outstanding sequence range and was ignored.
	ErrInvalidAck = errors.New("acknowledgment number out of range")
)
