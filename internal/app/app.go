// Package app wires the application together and runs the HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ambucrackers/shop-backend/internal/blob"
	"github.com/ambucrackers/shop-backend/internal/checkout"
	"github.com/ambucrackers/shop-backend/internal/domain/auth"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
	"github.com/ambucrackers/shop-backend/internal/handler"
	"github.com/ambucrackers/shop-backend/internal/invoice"
	"github.com/ambucrackers/shop-backend/internal/notify"
	"github.com/ambucrackers/shop-backend/internal/storage/postgres"
	"github.com/ambucrackers/shop-backend/pkg/health"
	"github.com/ambucrackers/shop-backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabasePingCheck(pool, 5*time.Second))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	voucherStore := postgres.NewVoucherStore(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	enquiryRepo := postgres.NewEnquiryRepository(pool)

	// File storage and signed URLs.
	blobStore, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		return errors.Wrap(err, "create blob store")
	}
	signer := blob.NewSigner([]byte(cfg.FileSigningSecret), "/api/files")

	// Outgoing mail. Without SMTP configuration orders still go through,
	// only the notification step is skipped.
	var mailer notify.Mailer = notify.Nop{}
	if cfg.SMTP.Host != "" {
		mailer, err = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Brand:    cfg.Brand,
			Currency: cfg.Currency,
		})
		if err != nil {
			return errors.Wrap(err, "create mailer")
		}
	} else {
		lg.Warn("SMTP host not configured, email notifications disabled")
	}

	// Domain services.
	resolver := voucher.NewResolver(voucherStore)
	renderer := invoice.NewRenderer(invoice.Config{Brand: cfg.Brand, Currency: cfg.Currency})
	checkoutSvc := checkout.NewService(
		checkout.Config{AdminEmail: cfg.AdminEmail, NotifyTimeout: cfg.NotifyTimeout},
		orderRepo,
		enquiryRepo,
		resolver,
		renderer,
		blobStore,
		signer,
		mailer,
	)
	verifier := auth.NewTokenVerifier([]byte(cfg.AuthSecret))

	// HTTP handlers.
	h := handler.New(
		handler.Config{PriceListKey: cfg.PriceListKey},
		productRepo,
		voucherStore,
		resolver,
		orderRepo,
		checkoutSvc,
		blobStore,
		signer,
		verifier,
	)

	api := otelhttp.NewHandler(h.Routes(), "shop-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", api))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type", "Authorization"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
