package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run serves until ctx is cancelled, then drains in-flight requests and runs
// hooks in order. Hook failures are logged and do not stop the shutdown.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	return Serve(ctx, server, listener, log, serviceName, hooks...)
}

func Serve(ctx context.Context, server *http.Server, listener net.Listener, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, listener.Addr())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s service failed: %w", serviceName, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	log.Infof("%s service: stopping accepting new connections (drain period: %v)", serviceName, constants.DrainTimeout)
	server.SetKeepAlivesEnabled(false)

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, shutdownErr)
	}

	if len(hooks) > 0 {
		drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
		defer drainCancel()

		log.Infof("%s service: executing shutdown hooks", serviceName)
		for i, hook := range hooks {
			if err := hook(drainCtx); err != nil {
				log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
			}
		}
	}

	if shutdownErr != nil {
		return shutdownErr
	}
	log.Infof("%s service stopped gracefully", serviceName)
	return nil
}
