package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"blog-cms/backend/global"
)

const shutdownTimeout = 10 * time.Second

// Run serves handler on host:port until ctx is cancelled, then drains
// in-flight requests.
func Run(ctx context.Context, host string, port int, handler http.Handler) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return Serve(ctx, ln, handler)
}

func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	errCh := make(chan error, 1)
	go func() {
		global.Logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	global.Logger.Info().Msg("http server stopped")
	return nil
}
