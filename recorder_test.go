package pacer

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// epoch is where every clock.Mock starts.
var epoch = time.Unix(0, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

type emission[T any] struct {
	Value T
	Info  EmitInfo
}

// recorder collects emissions together with the EmitInfo the hook saw
// right before each one.
type recorder[T any] struct {
	mu   sync.Mutex
	info EmitInfo
	ch   chan emission[T]
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{ch: make(chan emission[T], 256)}
}

func (r *recorder[T]) hook(info EmitInfo) {
	r.mu.Lock()
	r.info = info
	r.mu.Unlock()
}

func (r *recorder[T]) sink(v T) {
	r.mu.Lock()
	info := r.info
	r.mu.Unlock()
	r.ch <- emission[T]{Value: v, Info: info}
}

func (r *recorder[T]) opts(clk clock.Clock, extra ...Option) []Option {
	return append([]Option{WithClock(clk), WithOnEmit(r.hook)}, extra...)
}

func (r *recorder[T]) next(t *testing.T) emission[T] {
	t.Helper()
	select {
	case e := <-r.ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an emission")
	}
	var zero emission[T]
	return zero
}

func (r *recorder[T]) none(t *testing.T) {
	t.Helper()
	select {
	case e := <-r.ch:
		t.Fatalf("unexpected emission %v (%s at %v)", e.Value, e.Info.Edge, e.Info.At)
	case <-time.After(20 * time.Millisecond):
	}
}
