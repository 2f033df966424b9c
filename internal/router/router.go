// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// EstudeApostilas storefront. It organizes routes into public, auth and
// admin groups with appropriate middleware stacks.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"estudeapostilas/internal/access"
	"estudeapostilas/internal/handlers"
	"estudeapostilas/internal/middleware"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Catalog   *handlers.Catalog
	Consent   *handlers.Consent
	Assistant *handlers.Assistant
	Auth      *handlers.Auth
	Admin     *handlers.Admin
}

// Options configures the shared middleware.
type Options struct {
	Sessions      middleware.SessionLoader
	Authorize     access.Authorizer
	SecureCookies bool

	// LoginLimiter and AssistantLimiter throttle per client IP. Nil
	// disables the limit.
	LoginLimiter     *middleware.RateLimiter
	AssistantLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	authorize := opts.Authorize
	if authorize == nil {
		authorize = access.DenyAll
	}

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog(slog.Default()))
	r.Use(middleware.SecureHeaders(opts.SecureCookies))

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(opts.Sessions))
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Storefront.
		r.Get("/categories", h.Catalog.Categories)
		r.Get("/subcategories", h.Catalog.SubCategories)
		r.Get("/catalog", h.Catalog.Catalog)
		r.Get("/handouts/{id}", h.Catalog.Handout)
		r.Get("/me", h.Auth.Me)
		r.Get("/consent", h.Consent.Get)
		r.Post("/consent", h.Consent.Set)
		r.With(limit(opts.AssistantLimiter)).Post("/assistant", h.Assistant.Ask)

		// Sign-in.
		r.Route("/auth", func(r chi.Router) {
			r.With(limit(opts.LoginLimiter)).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// 2FA: requires a session but not a completed second factor.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/setup", h.Auth.TwoFASetup)
				r.With(limit(opts.LoginLimiter)).Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Admin area: session, completed 2FA and the admin predicate.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin(authorize))

			r.Route("/handouts", func(r chi.Router) {
				r.Get("/", h.Admin.Snapshot)
				r.Post("/", h.Admin.CreateHandout)
				r.Patch("/{id}", h.Admin.UpdateHandout)
				r.Delete("/{id}", h.Admin.DeleteHandout)
			})

			r.Route("/subcategories", func(r chi.Router) {
				r.Get("/", h.Admin.SubCategories)
				r.Post("/", h.Admin.CreateSubCategory)
				r.Patch("/{id}", h.Admin.UpdateSubCategory)
				r.Delete("/{id}", h.Admin.DeleteSubCategory)
			})
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
