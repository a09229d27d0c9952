package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogem/usermgmt/authenticator"
	"github.com/blogem/usermgmt/controllers"
	"github.com/blogem/usermgmt/router"
	"github.com/blogem/usermgmt/templates"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *envFile)
		},
	}
}

func runServe(ctx context.Context, envFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	var provider authenticator.Provider
	if a.cfg.OIDC.Enabled() {
		provider, err = authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
			Domain:       a.cfg.OIDC.Domain,
			ClientID:     a.cfg.OIDC.ClientID,
			ClientSecret: a.cfg.OIDC.ClientSecret,
			CallbackURL:  a.cfg.OIDC.CallbackURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OpenID provider: %w", err)
		}
	}

	renderer, err := controllers.NewRenderer(templates.FS)
	if err != nil {
		return err
	}
	ctrl := controllers.NewControllers(a.services, renderer, a.logger, provider)

	handler, err := router.New(a.cfg, ctrl, a.logger)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("backend", a.cfg.StoreBackend),
			slog.Bool("login", provider != nil),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
