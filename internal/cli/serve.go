package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mystery_boxes/internal/adapter/http/handlers"
	"mystery_boxes/internal/adapter/http/routes"
	"mystery_boxes/internal/infrastructure/payments"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the hold janitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *serveOptions) error {
	cfg, log, err := rootOpts.load()
	if err != nil {
		return err
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "[setup][config] invalid configuration", "err", err)
		return err
	}
	if cfg.AdminPassword == "" {
		log.Warn(ctx, "[setup][config] ADMIN_PASSWORD not set; admin routes will reject every request")
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	gateway, err := payments.NewGateway(cfg, log)
	if err != nil {
		return err
	}

	clock := interfaces.SystemClock()
	settingsUC := usecase.NewSettingsUseCase(st.settings, clock, log)
	boxUC := usecase.NewBoxUseCase(st.boxes, st.settings, clock, log)
	checkoutUC := usecase.NewCheckoutUseCase(st.settings, st.boxes, st.attempts, gateway, usecase.CheckoutOptions{
		Currency: cfg.PaymentCurrency,
		HoldTTL:  cfg.HoldTTL,
		Clock:    clock,
		Logger:   log,
	})
	confirmationUC := usecase.NewConfirmationUseCase(st.attempts, st.boxes, gateway, clock, log)

	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(routes.Handlers{
		Public:   handlers.NewPublicHandler(settingsUC, boxUC, log),
		Checkout: handlers.NewCheckoutHandler(checkoutUC, confirmationUC, log),
		Admin:    handlers.NewAdminHandler(settingsUC, boxUC, cfg.AdminPassword, clock, log),
	}, routes.Options{
		ExposeErrorDetails: cfg.ExposeErrorDetails,
		RequestLogging:     true,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "[setup][http] listening", "addr", srv.Addr, "store", cfg.StoreBackend, "gateway", gateway.Name())
		return routes.Serve(gctx, srv, shutdownTimeout)
	})
	g.Go(func() error {
		runJanitor(gctx, confirmationUC, cfg.HoldSweepInterval, log)
		return nil
	})

	err = g.Wait()
	log.Info(ctx, "[setup][http] stopped")
	return err
}

// holdSweeper releases holds whose expiry has passed.
type holdSweeper interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

// runJanitor sweeps expired holds every interval until ctx is done.
func runJanitor(ctx context.Context, sweeper holdSweeper, interval time.Duration, log logging.Logger) {
	if interval <= 0 {
		log.Warn(ctx, "[janitor][worker] disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sweeper.ReleaseExpiredHolds(ctx); err != nil && ctx.Err() == nil {
				log.Error(ctx, "[janitor][worker] sweep failed", "err", err)
			}
		}
	}
}
