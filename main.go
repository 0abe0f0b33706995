package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"dragnotes/config"
	"dragnotes/db"
	"dragnotes/handlers"
	"dragnotes/logger"
	"dragnotes/middleware"
	"dragnotes/service"
)

func main() {
	log := logger.NewLogger("dragnotes")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("server stopped")
}

// run serves until ctx is cancelled, then shuts the server down within the
// configured timeout.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	gdb, err := db.Connect(cfg.DB, log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      newRouter(gdb, cfg, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		log.Info().Str("address", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newRouter(gdb *gorm.DB, cfg *config.Config, log *logger.Logger) http.Handler {
	users := db.NewUserStore(gdb, log)
	notes := db.NewNoteStore(gdb, log)

	auth := service.NewAuthService(
		users,
		service.NewPasswordHasher(cfg.App.BcryptCost),
		service.NewTokenService(cfg.App.JWTSecret, cfg.App.TokenDuration),
		log,
	)

	h := handlers.NewHandler(handlers.Deps{
		Auth:  auth,
		Notes: service.NewNoteService(notes, log),
		Guard: middleware.NewGuard(auth),
		Ping:  func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Env:   cfg.App.Env,
	}, log)

	return h.Init()
}
