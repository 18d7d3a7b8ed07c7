package http

import (
	"github.com/bloodlink-api/internal/application/registration"
	"github.com/bloodlink-api/internal/application/session"
	"github.com/bloodlink-api/internal/application/verification"
	"github.com/bloodlink-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// Deps holds the services and shared infrastructure the router wires.
type Deps struct {
	Verification verification.Service
	Registration registration.Service
	Sessions     session.Service
	// Limiter backs the per-route ceiling on public endpoints.
	Limiter middleware.Limiter
	Logger  *zap.Logger
}
