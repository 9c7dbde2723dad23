package orchestrator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ServiceManager runs the API server and shuts it down when the context
// ends.
type ServiceManager struct {
	server          *http.Server
	shutdownTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	apiDone  chan error
	cleanups []func()
}

// NewServiceManager creates a new service manager
func NewServiceManager(server *http.Server, shutdownTimeout time.Duration) *ServiceManager {
	return &ServiceManager{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		apiDone:         make(chan error, 1),
	}
}

// OnShutdown registers a cleanup run after the server stops, in reverse
// registration order.
func (sm *ServiceManager) OnShutdown(fn func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cleanups = append(sm.cleanups, fn)
}

// StartAPIService binds the listener and serves in the background.
func (sm *ServiceManager) StartAPIService() error {
	ln, err := net.Listen("tcp", sm.server.Addr)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	sm.listener = ln
	sm.mu.Unlock()

	log.Info().
		Str("addr", ln.Addr().String()).
		Msg("Server starting")

	go func() {
		err := sm.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		sm.apiDone <- err
	}()
	return nil
}

// Addr is the bound address once the API service started.
func (sm *ServiceManager) Addr() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.listener == nil {
		return ""
	}
	return sm.listener.Addr().String()
}

// WaitForServices blocks until the server fails or ctx is cancelled, then
// shuts everything down.
func (sm *ServiceManager) WaitForServices(ctx context.Context) error {
	var serveErr error
	select {
	case serveErr = <-sm.apiDone:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("API service exited with error")
		} else {
			log.Info().Msg("API service exited")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down services...")
		if err := sm.shutdownServices(); err != nil {
			serveErr = err
		}
	}

	sm.runCleanups()
	log.Info().Msg("Service shutdown complete")
	return serveErr
}

func (sm *ServiceManager) shutdownServices() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sm.shutdownTimeout)
	defer cancel()

	if err := sm.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}
	return <-sm.apiDone
}

func (sm *ServiceManager) runCleanups() {
	sm.mu.Lock()
	cleanups := sm.cleanups
	sm.cleanups = nil
	sm.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
