package chanx

import (
	"context"
	"testing"
	"time"

	"github.com/baxromumarov/pacer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceBasic(t *testing.T) {
	ctx := context.Background()
	in := make(chan int)

	out, err := Debounce(ctx, in, 100*time.Millisecond)
	require.NoError(t, err)

	// Send a rapid burst of values; only the last should be emitted.
	go func() {
		for i := 1; i <= 5; i++ {
			in <- i
			time.Sleep(10 * time.Millisecond) // well under the 100ms debounce window
		}
		// Wait for the debounce timer to fire, then close.
		time.Sleep(200 * time.Millisecond)
		close(in)
	}()

	var received []int
	for v := range out {
		received = append(received, v)
	}

	require.Len(t, received, 1)
	assert.Equal(t, 5, received[0], "only the last value of the burst should be emitted")
}

func TestDebounceMultipleBursts(t *testing.T) {
	ctx := context.Background()
	in := make(chan int)

	out, err := Debounce(ctx, in, 80*time.Millisecond)
	require.NoError(t, err)

	go func() {
		// First burst
		in <- 1
		time.Sleep(10 * time.Millisecond)
		in <- 2
		time.Sleep(10 * time.Millisecond)
		in <- 3

		// Wait longer than the debounce period so value 3 is emitted.
		time.Sleep(250 * time.Millisecond)

		// Second burst
		in <- 10
		time.Sleep(10 * time.Millisecond)
		in <- 20

		time.Sleep(250 * time.Millisecond)
		close(in)
	}()

	var received []int
	for v := range out {
		received = append(received, v)
	}

	require.Len(t, received, 2, "should emit one value per burst")
	assert.Equal(t, 3, received[0])
	assert.Equal(t, 20, received[1])
}

func TestDebounceFlushesOnClose(t *testing.T) {
	in := make(chan string, 3)
	in <- "a"
	in <- "ab"
	in <- "abc"
	close(in)

	out, err := Debounce(context.Background(), in, time.Hour)
	require.NoError(t, err)

	var received []string
	for v := range out {
		received = append(received, v)
	}
	assert.Equal(t, []string{"abc"}, received, "closing the input flushes the pending value")
}

func TestDebounceLeadingOption(t *testing.T) {
	in := make(chan int)
	out, err := Debounce(context.Background(), in, time.Hour, pacer.WithLeading(true), pacer.WithTrailing(false))
	require.NoError(t, err)

	in <- 1
	select {
	case v := <-out:
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("leading value not emitted")
	}
	close(in)

	for range out {
		t.Fatal("nothing else should be emitted")
	}
}

func TestDebounceNilInput(t *testing.T) {
	ctx := context.Background()
	out, err := Debounce[int](ctx, nil, 100*time.Millisecond)
	require.NoError(t, err)

	_, ok := <-out
	assert.False(t, ok, "output should be closed immediately for nil input")
}

func TestDebounceContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)

	out, err := Debounce(ctx, in, time.Hour)
	require.NoError(t, err)

	in <- 1
	cancel()

	var received []int
	for v := range out {
		received = append(received, v)
	}
	assert.Empty(t, received, "pending value is dropped on cancellation")
}

func TestDebounceInvalidDelay(t *testing.T) {
	out, err := Debounce(context.Background(), make(chan int), -time.Second)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, pacer.ErrNegativeDuration)
	assert.True(t, pacer.IsConfigError(err))
}
