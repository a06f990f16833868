package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled by the first SIGINT or SIGTERM.
// Waiters give up on cancellation while the pool still finishes its queued tasks.
// A second signal exits with status 130 without waiting for the workers.
func SetupSignalHandler() context.Context {
	return handleSignals(context.Background(), slog.Default(), func() { os.Exit(130) })
}

// handleSignals stops listening once parent is done
func handleSignals(parent context.Context, logger *slog.Logger, abort func()) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Warn("interrupt received, finishing queued tasks before exit (interrupt again to abort)",
				"signal", sig.String())
			cancel()
		case <-parent.Done():
			cancel()
			return
		}

		select {
		case sig := <-sigCh:
			logger.Error("second interrupt, exiting without waiting for workers to drain", "signal", sig.String())
			abort()
		case <-parent.Done():
		}
	}()

	return ctx
}
