package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hallmate/internal/auth"
	"hallmate/internal/config"
	"hallmate/internal/handlers"
	"hallmate/internal/routes"
	"hallmate/internal/service"
	"hallmate/internal/storage/sqlite"
	"hallmate/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	guard := service.NewGuard(store)
	groupSvc := service.NewGroupService(store, guard)
	splitSvc := service.NewSplitService(store, guard)
	mealSvc := service.NewMealService(store, guard)
	fundSvc := service.NewFundService(store)

	router := routes.New(routes.Deps{
		JWT:           jwtManager,
		Auth:          handlers.NewAuthHandler(authenticator, jwtManager, store),
		Split:         handlers.NewSplitHandler(groupSvc, splitSvc),
		Meal:          handlers.NewMealHandler(groupSvc, mealSvc),
		Fund:          handlers.NewFundHandler(fundSvc),
		Expenses:      handlers.NewPersonalExpenseHandler(store),
		Tasks:         handlers.NewTaskHandler(store),
		Documents:     handlers.NewDocumentHandler(store),
		Notifications: handlers.NewNotificationHandler(store),
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr, "db", cfg.DB.Path)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
