package chanx

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by [Closable.Send] when the channel has been closed.
var ErrClosed = errors.New("chanx: send on closed channel")

// Closable wraps a channel with idempotent close and panic-safe send.
//
// A scheduler's sink may still be sending when the pipeline shuts down.
// Closable makes that race harmless: Close waits for in-flight sends to
// give up, and sends that arrive after Close report [ErrClosed].
type Closable[T any] struct {
	ch     chan T
	once   sync.Once
	closed chan struct{} // closed when Close() is called

	// Senders hold mu shared for the whole send; Close takes it
	// exclusively before closing ch.
	mu sync.RWMutex
}

// NewClosable creates a Closable channel with the given buffer capacity.
func NewClosable[T any](capacity int) *Closable[T] {
	return &Closable[T]{
		ch:     make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Send sends v to the underlying channel. It blocks until the value is
// received or buffered, ctx is cancelled, or the channel is closed.
func (c *Closable[T]) Send(ctx context.Context, v T) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	select {
	case c.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrClosed
	}
}

// Close closes the underlying channel. It is safe to call multiple times;
// only the first call actually closes the channel.
func (c *Closable[T]) Close() {
	c.once.Do(func() {
		close(c.closed)

		c.mu.Lock()
		close(c.ch)
		c.mu.Unlock()
	})
}

// Chan returns the underlying channel for reading. The returned channel
// is closed when [Closable.Close] is called.
func (c *Closable[T]) Chan() <-chan T {
	return c.ch
}

// Done returns a channel that is closed when [Closable.Close] is called.
func (c *Closable[T]) Done() <-chan struct{} {
	return c.closed
}
