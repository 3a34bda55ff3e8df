// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/seawatch/internal/config"
)

// Router binds the handler to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	taskToken     string
}

// NewRouter creates a router from the security settings.
func NewRouter(handler *Handler, security *config.SecurityConfig) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = security.CORSOrigins
	if security.RateLimitReqs > 0 {
		mwConfig.RateLimitRequests = security.RateLimitReqs
	}
	if security.RateLimitWindow > 0 {
		mwConfig.RateLimitWindow = security.RateLimitWindow
	}
	mwConfig.RateLimitDisabled = security.RateLimitDisabled

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
		taskToken:     security.TaskToken,
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics())
	r.Use(router.chiMiddleware.CORS())

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/ais", func(r chi.Router) {
			r.Get("/stream", router.handler.StreamSSE)
			r.Get("/ws", router.handler.StreamWebSocket)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitTasks())
			r.Use(RequireBearerToken(router.taskToken))
			r.Get("/check-geofences", router.handler.CheckGeofences)
			r.Post("/check-geofences", router.handler.CheckGeofences)
		})

		r.Group(func(r chi.Router) {
			r.Use(APISecurityHeaders())

			r.Get("/vessels", router.handler.Vessels)
			r.Get("/vessels/{mmsi}/registry", router.handler.VesselRegistry)
			r.Get("/alerts", router.handler.Alerts)
			r.Get("/rules", router.handler.Rules)
			r.Get("/notifications", router.handler.Notifications)

			r.Group(func(r chi.Router) {
				r.Use(RequireBearerToken(router.taskToken))
				r.Post("/geofences", router.handler.CreateGeofence)
				r.Post("/rules", router.handler.CreateRule)
				r.Patch("/rules/{id}", router.handler.UpdateRule)
			})
		})
	})

	return r
}
