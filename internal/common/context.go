package common

import (
	"os"
	"os/signal"
	"syscall"
)

// NewShutdownChannel creates a channel that receives termination
// signals (SIGINT or SIGTERM). Returns the channel and a cleanup
// function that should be called when done.
//
// Example usage:
//
//	sigChan, cleanup := common.NewShutdownChannel()
//	defer cleanup()
//	sig := <-sigChan
//	controller.Shutdown(sig.String())
func NewShutdownChannel() (<-chan os.Signal, func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cleanup := func() {
		signal.Stop(sigChan)
	}

	return sigChan, cleanup
}
