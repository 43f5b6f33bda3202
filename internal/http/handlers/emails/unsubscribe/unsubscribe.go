// Package unsubscribe serves GET /api/emails/unsubscribe.
package unsubscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

type Service interface {
	Unsubscribe(ctx context.Context, tok string) (*models.Subscription, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Response names the address that was removed.
type Response struct {
	response.Response
	Email string `json:"email"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Cancel a subscription with its token
// @Tags         emails
// @Produce      json
// @Param        token  query  string  true  "cancellation token"
// @Success      200  {object}  Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/emails/unsubscribe [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.unsubscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tok := strings.TrimSpace(r.URL.Query().Get("token"))
	if tok == "" {
		response.Fail(w, r, http.StatusBadRequest, "Token de cancelamento não fornecido", nil)
		return
	}

	sub, err := h.service.Unsubscribe(r.Context(), tok)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Info("unknown or used token")
		response.Fail(w, r, http.StatusNotFound, "Token inválido ou expirado", nil)
		return
	case errors.Is(err, storage.ErrValidation):
		response.Fail(w, r, http.StatusBadRequest, "Token de cancelamento não fornecido", err)
		return
	case err != nil:
		log.Error("failed to unsubscribe", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal, err)
		return
	}

	resp := Response{Response: response.OK(nil), Email: sub.Email}
	resp.Message = "Subscrição cancelada com sucesso"
	render.JSON(w, r, resp)
}
