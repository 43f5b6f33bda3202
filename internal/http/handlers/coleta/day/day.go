// Package day serves GET /api/dia/{nome}.
package day

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/weekday"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// MsgUnknownDay is returned with the list of valid names.
const MsgUnknownDay = "Dia da semana não encontrado"

type Service interface {
	GetDay(ctx context.Context, dia string) (*models.Coleta, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// NotFoundResponse lists the names a client may use instead.
type NotFoundResponse struct {
	response.Response
	AvailableDays []string `json:"availableDays"`
}

// UnknownDay writes the 404 answer shared by the day endpoints.
func UnknownDay(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, NotFoundResponse{
		Response:      response.Error(MsgUnknownDay),
		AvailableDays: weekday.All(),
	})
}

// Param returns the {nome} path parameter, unescaped when the router kept
// the raw form.
func Param(r *http.Request) string {
	nome := chi.URLParam(r, "nome")
	if v, err := url.PathUnescape(nome); err == nil {
		return v
	}
	return nome
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Collection record of one weekday
// @Tags         coletas
// @Produce      json
// @Param        nome  path  string  true  "weekday, e.g. terça-feira"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  NotFoundResponse
// @Router       /api/dia/{nome} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coleta.day"
	nome := Param(r)
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("dia", nome),
	)

	coleta, err := h.service.GetDay(r.Context(), nome)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Info("unknown weekday")
		UnknownDay(w, r)
		return
	case err != nil:
		log.Error("failed to get day", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "Erro ao buscar coleta do dia", err)
		return
	}

	render.JSON(w, r, response.OK(coleta))
}
