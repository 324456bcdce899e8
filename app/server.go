package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// serve runs the API until SIGINT or SIGTERM, then drains in-flight requests and runs the
// shutdown hooks in order.
func (app *application) serve(port string, onShutdown ...func()) error {
	srv := &http.Server{
		Addr:         port,
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownError := make(chan error, 1)

	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server", slog.String("addr", srv.Addr))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		for _, fn := range onShutdown {
			fn()
		}

		shutdownError <- err
	}()

	app.logger.Info("starting server", slog.String("port", port), slog.String("env", app.config.Environment), slog.Any("trusted_origins", app.config.TrustedOrigins))

	var err error
	if app.config.Environment == "production" {
		err = srv.ListenAndServeTLS(app.config.TLSCertFile, app.config.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	app.logger.Info("stopped server", slog.String("addr", srv.Addr))

	return nil
}
