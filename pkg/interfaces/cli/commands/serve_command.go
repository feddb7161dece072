package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
	"github.com/vsinha/pharmadash/pkg/interfaces/web"
)

const shutdownTimeout = 10 * time.Second

// ServeCommand runs the HTTP dashboard until ctx is cancelled
type ServeCommand struct {
	env    *Env
	listen string
}

// NewServeCommand creates a serve command. An empty listen address falls
// back to the configured one.
func NewServeCommand(env *Env, listen string) *ServeCommand {
	if listen == "" {
		listen = env.Config.Server.Listen
	}
	return &ServeCommand{env: env, listen: listen}
}

// Handler builds the dashboard HTTP handler
func (c *ServeCommand) Handler() (http.Handler, func() error, error) {
	dashboard, closeFn, err := c.env.Dashboard()
	if err != nil {
		return nil, nil, err
	}

	srv, err := web.New(dashboard, c.env.Config.Dashboard.Notes, logging.Component(c.env.Logger, "web"))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return srv.Handler(), closeFn, nil
}

// Execute serves until ctx is done, then shuts down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	handler, closeFn, err := c.Handler()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer closeFn()

	server := &http.Server{
		Addr:              c.listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.env.Logger.WithField("listen", c.listen).Info("serving dashboard")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	c.env.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
