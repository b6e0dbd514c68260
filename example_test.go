package pacer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/baxromumarov/pacer"
)

func ExampleDebouncer() {
	d, err := pacer.NewDebouncer(50*time.Millisecond, func(q string) {
		fmt.Println("search:", q)
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, q := range []string{"a", "ab", "abc"} {
		d.Feed(q)
	}
	// Close flushes the pending value and waits for it to be delivered.
	_ = d.Close(context.Background())
	// Output: search: abc
}

func ExampleThrottler() {
	th, err := pacer.NewThrottler(50*time.Millisecond, func(v int) {
		fmt.Println("render", v)
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	th.Feed(1)
	th.Feed(2)
	th.Feed(3)
	_ = th.Close(context.Background())
	// Output:
	// render 1
	// render 3
}

func ExampleNewDebouncedFunc() {
	save, err := pacer.NewDebouncedFunc(func(doc string) {
		fmt.Println("saved", doc)
	}, time.Second, pacer.WithMaxWait(5*time.Second))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer save.Dispose()

	save.Call("draft 1")
	save.Call("draft 2")
	save.Flush()
	_ = save.Close(context.Background())
	// Output: saved draft 2
}

func ExampleNewThrottler_invalid() {
	_, err := pacer.NewThrottler(-time.Second, func(int) {}, pacer.WithMaxWait(time.Second))
	fmt.Println(pacer.IsConfigError(err))
	// Output: true
}
