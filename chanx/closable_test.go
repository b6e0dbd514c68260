package chanx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosable_Send(t *testing.T) {
	c := NewClosable[int](1)
	err := c.Send(context.Background(), -12)
	assert.NoError(t, err)
	assert.Equal(t, -12, <-c.Chan())
}

func TestClosable_SendAfterClose(t *testing.T) {
	c := NewClosable[int](2)
	c.Close()
	c.Close() // idempotent

	err := c.Send(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)

	_, ok := <-c.Chan()
	assert.False(t, ok)
	select {
	case <-c.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestClosable_CloseUnblocksSender(t *testing.T) {
	c := NewClosable[int](0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Send(context.Background(), 1)
	}()

	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock the sender")
	}
}

func TestClosable_SendContextCanceled(t *testing.T) {
	c := NewClosable[int](0)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Send(ctx, 1), context.Canceled)
}
