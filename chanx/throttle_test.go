package chanx

import (
	"context"
	"testing"
	"time"

	"github.com/baxromumarov/pacer"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_CollapsesBurst(t *testing.T) {
	in := make(chan int, 5)
	for i := 1; i <= 5; i++ {
		in <- i
	}
	close(in)

	out, err := Throttle(context.Background(), in, 50*time.Millisecond)
	require.NoError(t, err)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 5}, got, "first value at once, latest at the end of the window")
}

func TestThrottle_KeepsInterval(t *testing.T) {
	in := make(chan int, 2)
	in <- 1
	in <- 2
	close(in)

	start := time.Now()
	out, err := Throttle(context.Background(), in, 100*time.Millisecond)
	require.NoError(t, err)

	var stamps []time.Duration
	for range out {
		stamps = append(stamps, time.Since(start))
	}
	require.Len(t, stamps, 2)
	assert.GreaterOrEqual(t, stamps[1]-stamps[0], 90*time.Millisecond)
}

func TestThrottle_MockClock(t *testing.T) {
	clk := clock.NewMock()
	in := make(chan string)

	out, err := Throttle(context.Background(), in, time.Second, pacer.WithClock(clk))
	require.NoError(t, err)

	in <- "first"
	assert.Equal(t, "first", <-out)

	in <- "second"
	clk.Add(time.Second)
	select {
	case v := <-out:
		assert.Equal(t, "second", v)
	case <-time.After(time.Second):
		t.Fatal("value not emitted after the interval")
	}

	close(in)
	for range out {
		t.Fatal("nothing else should be emitted")
	}
}

func TestThrottle_NilInput(t *testing.T) {
	out, err := Throttle[int](context.Background(), nil, time.Second)
	require.NoError(t, err)
	_, ok := <-out
	assert.False(t, ok)
}

func TestThrottle_ClosedInput(t *testing.T) {
	in := make(chan int)
	close(in)

	out, err := Throttle(context.Background(), in, time.Second)
	require.NoError(t, err)
	_, ok := <-out
	assert.False(t, ok)
}

func TestThrottle_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)

	out, err := Throttle(ctx, in, time.Second)
	require.NoError(t, err)
	cancel()

	for range out {
	}
}

func TestThrottle_RejectsMaxWait(t *testing.T) {
	_, err := Throttle(context.Background(), make(chan int), time.Second, pacer.WithMaxWait(time.Second))
	assert.ErrorIs(t, err, pacer.ErrUnsupportedOption)
}

func TestThrottle_RejectsNegativeInterval(t *testing.T) {
	_, err := Throttle(context.Background(), make(chan int), -time.Second)
	assert.ErrorIs(t, err, pacer.ErrNegativeDuration)
}
