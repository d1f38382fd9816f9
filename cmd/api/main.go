package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bistro-boss/api/internal/handlers"
	"github.com/bistro-boss/api/internal/payments"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/config"
	pfirestore "github.com/bistro-boss/api/internal/platform/firestore"
	"github.com/bistro-boss/api/internal/platform/observability"
	"github.com/bistro-boss/api/internal/platform/secrets"
	firestoreRepo "github.com/bistro-boss/api/internal/repositories/firestore"
	"github.com/bistro-boss/api/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	fetcher, err := secrets.NewFetcher(ctx,
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithDefaultProject(os.Getenv("GOOGLE_CLOUD_PROJECT")),
	)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	if _, err := firestoreProvider.Client(ctx); err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	userRepo, err := firestoreRepo.NewUserRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise user repository", zap.Error(err))
	}
	menuRepo, err := firestoreRepo.NewMenuRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise menu repository", zap.Error(err))
	}
	reviewRepo, err := firestoreRepo.NewReviewRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise review repository", zap.Error(err))
	}
	cartRepo, err := firestoreRepo.NewCartRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise cart repository", zap.Error(err))
	}
	paymentRepo, err := firestoreRepo.NewPaymentRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise payment repository", zap.Error(err))
	}

	userService, err := services.NewUserService(services.UserServiceDeps{Users: userRepo})
	if err != nil {
		logger.Fatal("failed to initialise user service", zap.Error(err))
	}
	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Menu:    menuRepo,
		Reviews: reviewRepo,
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}
	cartService, err := services.NewCartService(services.CartServiceDeps{Carts: cartRepo})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}
	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Payments: paymentRepo,
		Carts:    cartRepo,
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}
	analyticsService, err := services.NewAnalyticsService(services.AnalyticsServiceDeps{
		Users:    userRepo,
		Menu:     menuRepo,
		Carts:    cartRepo,
		Payments: paymentRepo,
	})
	if err != nil {
		logger.Fatal("failed to initialise analytics service", zap.Error(err))
	}

	tokenManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, auth.WithTokenTTL(cfg.Auth.TokenTTL))
	if err != nil {
		logger.Fatal("failed to initialise token manager", zap.Error(err))
	}
	authenticator, err := auth.NewAuthenticator(tokenManager,
		auth.WithRoleResolver(auth.RoleResolverFunc(userService.RoleByEmail)),
	)
	if err != nil {
		logger.Fatal("failed to initialise authenticator", zap.Error(err))
	}

	var paymentProvider payments.Provider
	if cfg.PSP.StripeAPIKey != "" {
		provider, err := payments.NewStripeProvider(payments.StripeProviderConfig{APIKey: cfg.PSP.StripeAPIKey})
		if err != nil {
			logger.Fatal("failed to initialise stripe provider", zap.Error(err))
		}
		paymentProvider = provider
	} else {
		logger.Warn("stripe api key not configured; payment intent creation disabled")
	}

	health := handlers.NewHealthHandlers(func(ctx context.Context) error {
		_, err := firestoreProvider.Client(ctx)
		return err
	})

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(health),
		handlers.WithTokenRoutes(handlers.NewTokenHandlers(tokenManager).Routes),
		handlers.WithUserRoutes(handlers.NewUserHandlers(authenticator, userService).Routes),
		handlers.WithMenuRoutes(handlers.NewMenuHandlers(authenticator, catalogService).Routes),
		handlers.WithReviewRoutes(handlers.NewReviewHandlers(catalogService).Routes),
		handlers.WithCartRoutes(handlers.NewCartHandlers(authenticator, cartService).Routes),
		handlers.WithPaymentRoutes(handlers.NewPaymentHandlers(authenticator, checkoutService, paymentProvider).Routes),
		handlers.WithAdminRoutes(handlers.NewAdminHandlers(authenticator, analyticsService).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
	logger.Info("server stopped")
}
