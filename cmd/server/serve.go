package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tactache/tactache-api/internal/config"
	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/database"
	"github.com/tactache/tactache-api/internal/handlers"
	"github.com/tactache/tactache-api/internal/middleware"
)

var skipMigrate bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close()

	if !skipMigrate {
		if err := database.Migrate(a.db, a.log); err != nil {
			return err
		}
	}

	authService, taskService, commentService, err := a.services()
	if err != nil {
		return err
	}

	store, err := newSessionStore(a.cfg)
	if err != nil {
		return err
	}

	gin.SetMode(a.cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(a.log))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:     authService,
		Tasks:    taskService,
		Comments: commentService,
	}, a.log, a.cfg.Location())

	httpServer := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.log.Info("starting server",
		slog.String("addr", httpServer.Addr),
		slog.String("session_store", a.cfg.SessionStore),
		slog.String("task_visibility", a.cfg.TaskVisibility),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serveUntil(httpServer, quit, a.log)
}

// serveUntil runs srv until a signal arrives on quit or the listener fails.
func serveUntil(srv *http.Server, quit <-chan os.Signal, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
	return nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		rs, err := redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // username (empty for default user)
			"",              // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(), // HTTPS only in release mode
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
