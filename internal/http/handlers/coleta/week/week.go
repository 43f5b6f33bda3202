// Package week serves GET /api/semana.
package week

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

type Service interface {
	ListWeek(ctx context.Context) ([]models.Coleta, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Response lists the week with its size.
type Response struct {
	response.Response
	Total int `json:"total"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Weekly collection schedule
// @Tags         coletas
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  response.Response
// @Router       /api/semana [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coleta.week"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	coletas, err := h.service.ListWeek(r.Context())
	if err != nil {
		log.Error("failed to list week", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "Erro ao buscar coletas da semana", err)
		return
	}

	log.Debug("week listed", slog.Int("total", len(coletas)))
	render.JSON(w, r, Response{
		Response: response.OK(coletas),
		Total:    len(coletas),
	})
}
