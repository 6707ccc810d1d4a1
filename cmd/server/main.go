package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/janisto/greeting-api/internal/http/v1/routes"
	"github.com/janisto/greeting-api/internal/platform/config"
	applog "github.com/janisto/greeting-api/internal/platform/logging"
	appmiddleware "github.com/janisto/greeting-api/internal/platform/middleware"
	"github.com/janisto/greeting-api/internal/platform/openapi"
	"github.com/janisto/greeting-api/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const apiTitle = "Greeting API"

func main() {
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args)
	stop()

	if err != nil {
		applog.LogError(context.Background(), "server failed", err)
	}
	if syncErr := applog.Sync(); syncErr != nil && !errors.Is(syncErr, syscall.EINVAL) {
		fmt.Fprintf(os.Stderr, "logger sync error: %v\n", syncErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// run loads .env files and executes the CLI. Dotenv values must be in the
// environment before flag parsing reads EnvVars.
func run(ctx context.Context, args []string) error {
	if err := config.LoadDotenv(); err != nil {
		return err
	}
	return newApp().RunContext(ctx, args)
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "greeting-api",
		Usage:   "serve the greeting endpoint",
		Version: Version,
		Flags:   config.Flags(),
		Action: func(c *cli.Context) error {
			cfg, err := config.FromContext(c)
			if err != nil {
				return err
			}
			if err := applog.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
			}
			return serve(c.Context, newServer(cfg), ln, cfg.ShutdownTimeout)
		},
	}
}

// newRouter builds the chi router with the full middleware stack and every
// API route registered.
func newRouter(cfg config.Config) *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(openapi.DocsPath),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For / X-Real-IP. Only run behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB
		applog.RequestLogger(),
		applog.AccessLogger(),
		appmiddleware.RateLimit(cfg.RateLimit, respond.TooManyRequestsHandler()),
		respond.Recoverer(),
		appmiddleware.FoldPathCase(router),
	)

	api := humachi.New(router, openapi.Config(apiTitle, Version, cfg.DocsEnabled))
	routes.Register(api)
	return router
}

func newServer(cfg config.Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv on ln until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
