package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/pagon/pkg/logger"
)

// runtimeConfig holds configuration for running the HTTP server.
type runtimeConfig struct {
	handler         http.Handler
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	shutdownHooks   []func(context.Context) error
	baseCtx         context.Context
}

// runServer starts the HTTP server and blocks until a signal arrives or
// the base context is cancelled, then shuts down gracefully.
func runServer(cfg runtimeConfig) error {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout == 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	log := cfg.logger
	if log == nil {
		log = logger.NewNope()
	}
	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen first to get actual address
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
		defer shutdownCancel()

		errs := []error{server.Shutdown(shutdownCtx)}
		errs = append(errs, runHooks(shutdownCtx, cfg.shutdownHooks, log))
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}

// runHooks runs shutdown hooks concurrently and joins their errors.
func runHooks(ctx context.Context, hooks []func(context.Context) error, log *slog.Logger) error {
	errs := make([]error, len(hooks))

	var g errgroup.Group
	for i, hook := range hooks {
		g.Go(func() error {
			if err := hook(ctx); err != nil {
				log.Error("shutdown hook failed", slog.Any("error", err))
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
