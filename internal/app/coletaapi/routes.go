package coletaapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/calendar/pdf"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/coleta/day"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/coleta/update"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/coleta/week"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/emails/emailtemplate"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/emails/sendcalendar"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/emails/stats"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/emails/subscribe"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/emails/unsubscribe"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/health"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	authservice "github.com/magabrotheeeer/coleta-calendar/internal/services/auth"
	coletaservice "github.com/magabrotheeeer/coleta-calendar/internal/services/coleta"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
	subservice "github.com/magabrotheeeer/coleta-calendar/internal/services/subscription"
)

// Services groups what the handlers depend on.
type Services struct {
	Coleta       *coletaservice.Service
	Subscription *subservice.Service
	Notifier     *notifier.Service
	Auth         *authservice.Service
	Health       health.Store
	Metrics      *metrics.Metrics
	MetricsPage  http.Handler
}

// RegisterRoutes mounts every endpoint of the API on r.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, svc Services) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
		response.WithDetails(cfg.IsDevelopment()),
		middlewarectx.Metrics(svc.Metrics),
	)
	r.NotFound(response.NotFound)

	unsubscribeHandler := unsubscribe.New(logger, svc.Subscription)
	templateHandler := emailtemplate.New(logger, svc.Subscription)

	r.Route("/api", func(r chi.Router) {
		r.Get("/semana", week.New(logger, svc.Coleta).ServeHTTP)
		r.Get("/dia", day.UnknownDay)
		r.Get("/dia/{nome}", day.New(logger, svc.Coleta).ServeHTTP)
		r.Get("/calendario.pdf", pdf.New(logger, svc.Notifier).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)

		r.With(middlewarectx.RateLimitMiddleware(cfg.RPS, cfg.Burst, logger)).
			Post("/emails/subscribe", subscribe.New(logger, svc.Subscription).ServeHTTP)
		r.Get("/emails/unsubscribe", unsubscribeHandler.ServeHTTP)

		// Admin endpoints; open when no admin password is configured.
		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled() {
				r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			}
			r.Put("/dia/{nome}", update.New(logger, svc.Coleta).ServeHTTP)
			r.Post("/emails/send-calendar", sendcalendar.New(logger, svc.Notifier).ServeHTTP)
			r.Get("/emails/stats", stats.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/emails/template", templateHandler.Get)
			r.Put("/emails/template", templateHandler.Put)
		})
	})

	// Target of the link carried by every calendar email.
	r.Get("/unsubscribe", unsubscribeHandler.ServeHTTP)
	r.Get("/health", health.New(logger, svc.Health, cfg.Driver, cfg.Env).ServeHTTP)
	r.Handle("/metrics", svc.MetricsPage)
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
