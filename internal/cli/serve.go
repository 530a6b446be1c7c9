package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"petworld/internal/adapters/auth/jwtauth"
	"petworld/internal/adapters/notify"
	"petworld/internal/config"
	"petworld/internal/platform/httpclient"
	"petworld/internal/platform/logger"
	"petworld/internal/platform/otel"
	"petworld/internal/ports/auth"
	"petworld/internal/router"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, otel.Options{
		Endpoint:    cfg.OTel.Endpoint,
		ServiceName: cfg.App.Name,
		Version:     VersionString(),
	})
	if err != nil {
		// sin tracing el servicio funciona igual
		log.Warn("tracing disabled", map[string]any{"err": err})
	}

	db, closeDB, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	dispatcher := newDispatcher(cfg, log)

	var verifier auth.AuthVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	} else {
		log.Warn("JWT_SECRET not set, accepting X-Debug-User-ID (dev mode)", nil)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			DB:           db,
			Driver:       cfg.DB.Driver,
			Logger:       log,
			Notifier:     dispatcher,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "db_driver": cfg.DB.Driver, "version": Version})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	// primero se corta el tráfico, después se vacían notificaciones y spans
	err = errors.Join(err, dispatcher.Close(shutdownCtx), shutdownTracing(shutdownCtx))
	return err
}

func newDispatcher(cfg *config.Config, log logger.Logger) *notify.Dispatcher {
	observers := []notify.Observer{notify.LogObserver{Logger: log}}
	if cfg.Notify.WebhookURL != "" {
		client := httpclient.New(cfg.HTTP.WriteTimeout)
		observers = append(observers, notify.NewWebhookObserver(client, cfg.Notify.WebhookURL))
	}
	return notify.NewDispatcher(notify.Options{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		MaxAttempts: cfg.Notify.MaxAttempts,
		Logger:      log,
	}, observers...)
}
