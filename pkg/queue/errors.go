package queue

import "errors"

var (
	// ErrClosed indicates the queue has been closed.
	ErrClosed = errors.New("queue closed")
	// ErrUnknownKind indicates an unrecognized queue backend kind.
	ErrUnknownKind = errors.New("unknown queue kind")
)
