package pipeline

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM, so an
// in-flight run aborts at its next suspension point. A second signal
// forces exit.
func SignalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("[Signal] received %v, cancelling run...", sig)
		cancel()

		sig = <-sigCh
		log.Printf("[Signal] received second %v, forcing exit", sig)
		os.Exit(1)
	}()

	return ctx
}
