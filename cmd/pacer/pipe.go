package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/baxromumarov/pacer"
	"github.com/baxromumarov/pacer/chanx"
)

// scheduler is what both subcommands drive: a pacer.Debouncer[string] or
// a pacer.Throttler[string].
type scheduler interface {
	Feed(v string)
	Close(ctx context.Context) error
	Dispose()
	Stats() pacer.Stats
}

type buildFunc func(sink func(string), opts []pacer.Option) (scheduler, error)

// pipe feeds every line of r to s. At EOF it closes s, which lets the
// last pending line out. If ctx ends first, s is disposed and pending
// lines are dropped.
func pipe(ctx context.Context, r io.Reader, s scheduler) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		readErr <- scanLines(ctx, r, lines)
	}()

	for {
		line, ok, err := chanx.Recv(ctx, lines)
		if err != nil {
			// The reader may stay blocked on stdin; it is abandoned.
			s.Dispose()
			return nil
		}
		if !ok {
			break
		}
		s.Feed(line)
	}

	if err := <-readErr; err != nil {
		s.Dispose()
		return fmt.Errorf("read input: %w", err)
	}
	if err := s.Close(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func scanLines(ctx context.Context, r io.Reader, lines chan<- string) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := chanx.Send(ctx, lines, sc.Text()); err != nil {
			return nil
		}
	}
	return sc.Err()
}

// lineWriter is the sink of the scheduler. It remembers the first write
// error and skips later writes.
type lineWriter struct {
	mu       sync.Mutex
	w        io.Writer
	firstErr error
}

func (l *lineWriter) write(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.firstErr != nil {
		return
	}
	if _, err := fmt.Fprintln(l.w, line); err != nil {
		l.firstErr = fmt.Errorf("write output: %w", err)
	}
}

func (l *lineWriter) err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.firstErr
}
