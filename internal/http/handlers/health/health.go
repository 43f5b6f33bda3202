// Package health serves GET /health.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/weekday"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

// Check and overall statuses.
const (
	CheckOK      = "ok"
	CheckWarning = "warning"
	CheckError   = "error"

	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const message = "API de Coleta de Lixo - São João de Ver"

type Store interface {
	Ping(ctx context.Context) error
	ListColetas(ctx context.Context) ([]models.Coleta, error)
	SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error)
	GetTemplate(ctx context.Context) (*models.EmailTemplate, error)
}

type Handler struct {
	log    *slog.Logger
	store  Store
	driver string
	env    string
}

// Check is the outcome of one probe. Only the fields relevant to the probe
// are set.
type Check struct {
	Status              string `json:"status"`
	Type                string `json:"type,omitempty"`
	Count               *int   `json:"count,omitempty"`
	Expected            int    `json:"expected,omitempty"`
	TotalSubscriptions  *int   `json:"totalSubscriptions,omitempty"`
	ActiveSubscriptions *int   `json:"activeSubscriptions,omitempty"`
	HasSubject          *bool  `json:"hasSubject,omitempty"`
	Error               string `json:"error,omitempty"`
}

type Report struct {
	Status      string           `json:"status"`
	Message     string           `json:"message"`
	Environment string           `json:"environment"`
	Checks      map[string]Check `json:"checks"`
	Timestamp   string           `json:"timestamp"`
}

func New(log *slog.Logger, store Store, driver, env string) *Handler {
	return &Handler{log: log, store: store, driver: driver, env: env}
}

// ServeHTTP godoc
// @Summary      Liveness and data checks
// @Tags         health
// @Produce      json
// @Success      200  {object}  Report
// @Failure      503  {object}  Report
// @Router       /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rep := h.Run(r.Context())
	if rep.Status == StatusUnhealthy {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, rep)
}

// Run executes every probe. A failing storage ping skips the data probes.
func (h *Handler) Run(ctx context.Context) Report {
	const op = "handlers.health"
	log := h.log.With(slog.String("op", op))

	rep := Report{
		Message:     message,
		Environment: h.env,
		Checks:      make(map[string]Check, 4),
		Timestamp:   response.Now(),
	}

	if err := h.store.Ping(ctx); err != nil {
		log.Error("storage ping failed", sl.Err(err))
		rep.Checks["storage"] = Check{Status: CheckError, Type: h.driver, Error: err.Error()}
		rep.Status = StatusUnhealthy
		return rep
	}
	rep.Checks["storage"] = Check{Status: CheckOK, Type: h.driver}

	expected := len(weekday.All())
	if coletas, err := h.store.ListColetas(ctx); err != nil {
		log.Error("listing coletas failed", sl.Err(err))
		rep.Checks["coletas"] = Check{Status: CheckError, Expected: expected, Error: err.Error()}
	} else {
		n := len(coletas)
		c := Check{Status: CheckOK, Count: &n, Expected: expected}
		if n != expected {
			c.Status = CheckWarning
		}
		rep.Checks["coletas"] = c
	}

	if st, err := h.store.SubscriptionStats(ctx); err != nil {
		log.Error("subscription stats failed", sl.Err(err))
		rep.Checks["emails"] = Check{Status: CheckError, Error: err.Error()}
	} else {
		rep.Checks["emails"] = Check{
			Status:              CheckOK,
			TotalSubscriptions:  &st.TotalSubscriptions,
			ActiveSubscriptions: &st.ActiveSubscriptions,
		}
	}

	tpl, err := h.store.GetTemplate(ctx)
	hasSubject := err == nil && tpl != nil && tpl.Subject != ""
	c := Check{Status: CheckOK, HasSubject: &hasSubject}
	if !hasSubject {
		c.Status = CheckError
		if err != nil {
			c.Error = err.Error()
		}
	}
	rep.Checks["template"] = c

	rep.Status = overall(rep.Checks)
	return rep
}

func overall(checks map[string]Check) string {
	status := StatusHealthy
	for _, c := range checks {
		switch c.Status {
		case CheckError:
			return StatusUnhealthy
		case CheckWarning:
			status = StatusDegraded
		}
	}
	return status
}
