// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"estudeapostilas/internal/access"
	"estudeapostilas/internal/admin"
	"estudeapostilas/internal/assistant"
	"estudeapostilas/internal/cache"
	"estudeapostilas/internal/database"
	"estudeapostilas/internal/handlers"
	"estudeapostilas/internal/middleware"
	"estudeapostilas/internal/router"
	"estudeapostilas/internal/session"
	"estudeapostilas/internal/storage"
	"estudeapostilas/internal/store"
)

func runServe(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	admins := adminEmail()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, admins); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Connect to Valkey (session store).
	valkeyClient, err := cache.ConnectValkey(cmd.Context(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	handoutStore := store.NewHandoutStore(db)
	subCategoryStore := store.NewSubCategoryStore(db)
	userStore := store.NewUserStore(db)

	// Object storage is optional; without it covers must be given as URLs.
	var covers admin.ObjectStorage
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("init s3 storage: %w", err)
	}
	if storageClient != nil {
		covers = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, cover uploads disabled")
	}

	registry := assistant.NewRegistry(cfg.AIProvider, cfg.AIProviders())
	slog.Info("assistant providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)

	authorize := access.DenyAll
	if admins != "" {
		authorize = access.SingleAdmin(admins)
	} else {
		slog.Warn("ADMIN_EMAIL not set, admin area disabled")
	}

	loginLimiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 5)
	defer loginLimiter.Stop()
	assistantLimiter := middleware.NewRateLimiter(rate.Every(3*time.Second), 10)
	defer assistantLimiter.Stop()

	r := router.New(router.Options{
		Sessions:         sessionStore,
		Authorize:        authorize,
		SecureCookies:    secureCookies,
		LoginLimiter:     loginLimiter,
		AssistantLimiter: assistantLimiter,
	}, router.Handlers{
		Catalog:   handlers.NewCatalog(handoutStore, subCategoryStore),
		Consent:   handlers.NewConsent(secureCookies),
		Assistant: handlers.NewAssistant(assistant.New(registry)),
		Auth:      handlers.NewAuth(sessionStore, userStore, authorize),
		Admin:     handlers.NewAdmin(admin.New(handoutStore, subCategoryStore, covers)),
	})

	// WriteTimeout must accommodate the assistant waiting on the model.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
