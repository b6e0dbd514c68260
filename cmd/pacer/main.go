// Command pacer debounces or throttles lines read from stdin.
//
//	tail -f app.log | pacer throttle --interval 1s
//	inotifywait -m src | pacer debounce --delay 300ms --max-wait 2s
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pacer:", err)
		stop()
		os.Exit(1)
	}
}
