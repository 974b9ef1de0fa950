package http

import (
	"net/http"
	"time"

	"github.com/emailotp-api/internal/application/otp"
	"github.com/emailotp-api/internal/config"
	"github.com/emailotp-api/internal/infrastructure/dynamo"
	"github.com/emailotp-api/internal/infrastructure/smtp"
	"github.com/emailotp-api/internal/transport/http/handler"
	appmiddleware "github.com/emailotp-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPRepo      *dynamo.OTPRepo
	EmailLogRepo *dynamo.EmailLogRepo
	Mailer       smtp.Mailer
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 1 request/second, burst of 5 per client IP.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)

	otpSvc := otp.NewService(otp.ServiceDeps{
		OTPRepo:     deps.OTPRepo,
		LogRepo:     deps.EmailLogRepo,
		Mailer:      deps.Mailer,
		TTL:         time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		MaxAttempts: cfg.OTPMaxAttempts,
		Cooldown:    time.Duration(cfg.OTPCooldownSec) * time.Second,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewEmailOTPHandler(otpSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(otpRL.Limit).Post("/email-otp/{action}", otpH.Action)
	})

	return r
}
