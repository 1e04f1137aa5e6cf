package app

import (
	"context"
	"errors"
	"net"

	"session-server/internal/auth"
	"session-server/internal/config"
	"session-server/internal/logger"
	"session-server/internal/metrics"
	"session-server/internal/static"
	"session-server/internal/web"
)

// App owns the listener and the per-connection processing pipeline.
type App struct {
	processor *web.Processor
	listener  net.Listener
	cleanups  []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	sessions, sessionCleanup, err := setupSessions(cfg)
	if err != nil {
		return nil, err
	}

	users, userCleanup, err := setupUsers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var resources static.Resolver
	if cfg.StaticDir != "" {
		resources = static.NewDir(cfg.StaticDir)
	} else {
		resources = static.NewEmbedded()
	}

	responder := web.NewResponder(resources)
	router := web.NewRouter(sessions, auth.NewService(users, sessions), responder)

	metrics.Serve(cfg.MetricsPort)

	listener, err := net.Listen("tcp", ":"+cfg.AppPort)
	if err != nil {
		return nil, err
	}

	a := &App{
		processor: web.NewProcessor(router, responder),
		listener:  listener,
	}
	for _, c := range []func() error{sessionCleanup, userCleanup} {
		if c != nil {
			a.cleanups = append(a.cleanups, c)
		}
	}
	return a, nil
}

// Run accepts connections until the listener closes, dispatching each to
// its own goroutine. One stalled connection never affects another.
func (a *App) Run() error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go a.handle(conn)
	}
}

func (a *App) handle(conn net.Conn) {
	defer conn.Close()

	logger.Info("connection accepted", map[string]any{
		"remote": conn.RemoteAddr().String(),
	})

	a.processor.Process(context.Background(), conn)
}

// Shutdown stops accepting and releases backends. In-flight connections
// finish on their own goroutines.
func (a *App) Shutdown(_ context.Context) error {
	if err := a.listener.Close(); err != nil {
		return err
	}
	for _, cleanup := range a.cleanups {
		if err := cleanup(); err != nil {
			return err
		}
	}
	return nil
}
