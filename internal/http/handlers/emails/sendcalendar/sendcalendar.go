// Package sendcalendar serves POST /api/emails/send-calendar.
package sendcalendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
)

type Service interface {
	BroadcastCalendar(ctx context.Context) (*models.BroadcastResult, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Response flattens the broadcast counters next to the envelope.
type Response struct {
	response.Response
	models.BroadcastResult
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary      Render the calendar and email it to every subscriber
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/emails/send-calendar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.sendcalendar"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.BroadcastCalendar(r.Context())
	switch {
	case errors.Is(err, notifier.ErrNoData):
		response.Fail(w, r, http.StatusNotFound, "Nenhuma coleta encontrada", nil)
		return
	case err != nil:
		log.Error("broadcast aborted", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "Erro ao enviar calendários", err)
		return
	}

	resp := Response{Response: response.OK(nil), BroadcastResult: *res}
	if len(res.Results) == 0 {
		resp.Message = "PDF gerado, mas nenhum email subscrito encontrado"
	} else {
		resp.Message = fmt.Sprintf("Calendários enviados: %d sucessos, %d falhas", res.EmailsSent, res.EmailsFailed)
	}
	log.Info("broadcast requested over http",
		slog.Int("sent", res.EmailsSent),
		slog.Int("failed", res.EmailsFailed),
	)
	render.JSON(w, r, resp)
}
