package orchestrator

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// SignalHandler manages OS signals for graceful shutdown
type SignalHandler struct {
	sigChan chan os.Signal
}

// NewSignalHandler registers for SIGINT and SIGTERM.
func NewSignalHandler() *SignalHandler {
	sh := &SignalHandler{
		sigChan: make(chan os.Signal, 1),
	}
	signal.Notify(sh.sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sh
}

// HandleSignals cancels the context on the first shutdown signal.
func (sh *SignalHandler) HandleSignals(ctx context.Context, cancel context.CancelFunc) {
	go func() {
		select {
		case sig := <-sh.sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sh.sigChan)
	}()
}
