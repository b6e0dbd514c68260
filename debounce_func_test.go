package pacer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog[A any] struct {
	mu    sync.Mutex
	calls []A
	ch    chan A
}

func newCallLog[A any]() *callLog[A] {
	return &callLog[A]{ch: make(chan A, 64)}
}

func (l *callLog[A]) fn(args A) {
	l.mu.Lock()
	l.calls = append(l.calls, args)
	l.mu.Unlock()
	l.ch <- args
}

func (l *callLog[A]) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *callLog[A]) next(t *testing.T) A {
	t.Helper()
	select {
	case a := <-l.ch:
		return a
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an invocation")
	}
	var zero A
	return zero
}

func TestDebouncedFuncLatestArgs(t *testing.T) {
	clk := clock.NewMock()
	log := newCallLog[string]()
	f, err := NewDebouncedFunc(log.fn, ms(200), WithClock(clk))
	require.NoError(t, err)
	defer f.Dispose()

	for _, q := range []string{"g", "go", "gop", "goph"} {
		f.Call(q)
		clk.Add(ms(50))
	}
	assert.True(t, f.Pending())
	assert.Equal(t, 0, log.count())

	clk.Add(ms(150))
	assert.Equal(t, "goph", log.next(t))

	clk.Add(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, log.count(), "N calls in one window invoke the action once")
	assert.Equal(t, int64(3), f.Stats().Superseded)
}

func TestDebouncedFuncCallWithSwapsAction(t *testing.T) {
	clk := clock.NewMock()
	first := newCallLog[int]()
	second := newCallLog[int]()
	f, err := NewDebouncedFunc(first.fn, ms(100), WithClock(clk))
	require.NoError(t, err)
	defer f.Dispose()

	f.Call(1)
	f.CallWith(second.fn, 2)
	clk.Add(ms(100))

	assert.Equal(t, 2, second.next(t), "the most recently supplied action runs")
	assert.Equal(t, 0, first.count())

	// The swapped action sticks, and a nil fn keeps it.
	f.CallWith(nil, 3)
	clk.Add(ms(100))
	assert.Equal(t, 3, second.next(t))
}

func TestDebouncedFuncFlushAndClose(t *testing.T) {
	clk := clock.NewMock()
	log := newCallLog[struct{}]()
	f, err := NewDebouncedFunc(log.fn, time.Minute, WithClock(clk))
	require.NoError(t, err)

	f.Call(struct{}{})
	f.Flush()
	log.next(t)
	assert.False(t, f.Pending())

	f.Call(struct{}{})
	require.NoError(t, f.Close(context.Background()))
	assert.Equal(t, 2, log.count(), "close runs the pending invocation")

	f.Call(struct{}{})
	clk.Add(time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, log.count())
	assert.True(t, f.Stats().Disposed)
}

func TestDebouncedFuncDispose(t *testing.T) {
	clk := clock.NewMock()
	log := newCallLog[int]()
	f, err := NewDebouncedFunc(log.fn, ms(100), WithClock(clk))
	require.NoError(t, err)

	f.Call(1)
	f.Dispose()
	f.Dispose()
	clk.Add(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, log.count())
}

func TestDebouncedFuncNilAction(t *testing.T) {
	_, err := NewDebouncedFunc[int](nil, ms(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilSink)
	assert.True(t, IsConfigError(err))
}

func TestDebouncedFuncLeadingWithMaxWait(t *testing.T) {
	clk := clock.NewMock()
	log := newCallLog[int]()
	f, err := NewDebouncedFunc(log.fn, ms(100), WithClock(clk), WithLeading(true), WithMaxWait(ms(250)))
	require.NoError(t, err)
	defer f.Dispose()

	f.Call(0)
	assert.Equal(t, 0, log.next(t), "the first call of a burst runs at once")

	// A call every 50ms never lets the 100ms delay elapse.
	for i := 1; i <= 8; i++ {
		clk.Add(ms(50))
		f.Call(i)
	}

	assert.Equal(t, 4, log.next(t), "the ceiling forces the latest call at 250ms")
	assert.Equal(t, 5, log.next(t), "the next call opens a new burst with a leading invocation")

	clk.Add(ms(100))
	assert.Equal(t, 8, log.next(t), "the second ceiling and the delay expire together at 500ms")

	clk.Add(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 4, log.count())

	s := f.Stats()
	assert.Equal(t, int64(2), s.Leading)
	assert.Equal(t, int64(2), s.MaxWait)
	assert.Equal(t, int64(0), s.Trailing)
}
