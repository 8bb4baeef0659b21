package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"association-storefront/internal/config"
	"association-storefront/internal/httpserver"
	"association-storefront/internal/notify"
	"association-storefront/internal/repository/clientstorage"
	cartsvc "association-storefront/internal/service/cart"
	checkoutsvc "association-storefront/internal/service/checkout"
	paymentsvc "association-storefront/internal/service/payment"
	productsvc "association-storefront/internal/service/product"
	"association-storefront/internal/service/session"
	"association-storefront/internal/shopapi"
	"association-storefront/internal/tracing"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := clientstorage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s storage: %v", cfg.StorageBackend, err)
	}
	defer closeStorage()

	shutdownTracing := tracing.Setup()

	shop := shopapi.New(cfg.ShopAPIURL, cfg.ShopAPITimeout, logger)

	var paymentService *paymentsvc.Service
	if cfg.AMQPURL != "" {
		receipts, err := notify.Dial(cfg.AMQPURL, cfg.AMQPReceiptQueue, logger)
		if err != nil {
			logger.Fatalf("connect receipt queue: %v", err)
		}
		defer receipts.Close()
		paymentService = paymentsvc.New(shop, receipts, logger)
	} else {
		logger.Printf("receipt events disabled: AMQP_URL not set")
		paymentService = paymentsvc.New(shop, nil, logger)
	}

	sessions := session.New(storage, cfg.ProfileIdle, logger)
	go sessions.Run(ctx, time.Minute)

	productService := productsvc.New(shop)

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessions,
		Cart:           cartsvc.New(productService),
		Products:       productService,
		Checkout:       checkoutsvc.New(shop, logger),
		Payment:        paymentService,
		Storage:        storage,
		AllowedOrigins: cfg.AllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
	})

	serverErr := make(chan error, 2)
	go func() {
		logger.Printf("starting http server on %s storage=%s shop=%s", cfg.HTTPAddr, cfg.StorageBackend, cfg.ShopAPIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var admin *httpserver.Server
	if cfg.AdminEnabled() {
		admin = httpserver.NewAdmin(cfg.AdminAddr, logger, sessions)
		go func() {
			logger.Printf("starting admin listener on %s", cfg.AdminAddr)
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Printf("received signal, shutting down")
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if admin != nil {
		if err := admin.Shutdown(shutdownCtx); err != nil {
			logger.Printf("admin shutdown failed: %v", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	paymentService.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("stop tracing: %v", err)
	}
}
