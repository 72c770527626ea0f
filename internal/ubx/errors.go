package ubx

import (
	"errors"
	"fmt"
)

var (
	// ErrNeedMore is returned by Scanner.Next when the buffered input ends
	// before a frame completes. It is not a fault.
	ErrNeedMore = errors.New("ubx: need more input")

	ErrFraming        = errors.New("ubx: framing fault")
	ErrChecksum       = errors.New("ubx: checksum mismatch")
	ErrUnknownKind    = errors.New("ubx: unknown message kind")
	ErrLengthMismatch = errors.New("ubx: payload length mismatch")
)

// FrameError describes a rejected frame or view. All of them are
// recoverable: callers skip the message and keep scanning.
type FrameError struct {
	Kind   Kind
	Length int
	Err    error
}

func (e *FrameError) Error() string {
	if e.Kind == 0 && e.Length == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (kind=%s len=%d)", e.Err, e.Kind, e.Length)
}

func (e *FrameError) Unwrap() error { return e.Err }
