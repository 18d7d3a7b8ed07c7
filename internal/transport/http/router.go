package http

import (
	"net/http"

	"github.com/bloodlink-api/internal/config"
	"github.com/bloodlink-api/internal/domain"
	"github.com/bloodlink-api/internal/transport/http/handler"
	appmiddleware "github.com/bloodlink-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limit := appmiddleware.Limit(deps.Limiter, log)
	auth := appmiddleware.Auth(deps.Sessions, log)
	cookies := handler.Cookies{Secure: cfg.CookieSecure}

	healthH := handler.NewHealthHandler()
	regH := handler.NewRegistrationHandler(deps.Registration, cookies, log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/doner", func(r chi.Router) {
			otpH := handler.NewOTPHandler(deps.Verification, domain.KindDonor, log)
			sessH := handler.NewSessionHandler(deps.Sessions, domain.KindDonor, cookies, log)

			r.With(limit).Post("/send-email-otp", otpH.SendEmailOTP)
			r.With(limit).Post("/send-phone-otp", otpH.SendPhoneOTP)
			r.With(limit).Post("/verify-otp", otpH.VerifyOTP)
			r.With(limit).Post("/register-doner", regH.RegisterDonor)
			r.With(limit).Post("/login", sessH.Login)
			r.Get("/logout", sessH.Logout)
			r.With(limit).Post("/refresh-token", sessH.Refresh)
			r.With(auth, appmiddleware.RequireKind(domain.KindDonor)).Get("/get-user", sessH.GetUser)
		})

		r.Route("/camp", func(r chi.Router) {
			otpH := handler.NewOTPHandler(deps.Verification, domain.KindCamp, log)
			sessH := handler.NewSessionHandler(deps.Sessions, domain.KindCamp, cookies, log)

			r.With(limit).Post("/send-email-otp", otpH.SendEmailOTP)
			r.With(limit).Post("/verify-otp", otpH.VerifyOTP)
			r.With(limit).Post("/register-camp", regH.RegisterCamp)
			r.With(limit).Post("/login", sessH.Login)
			r.Get("/logout", sessH.Logout)
			r.With(limit).Post("/refresh-token", sessH.Refresh)
			r.With(auth, appmiddleware.RequireKind(domain.KindCamp)).Get("/get-user", sessH.GetUser)
		})
	})

	return r
}
