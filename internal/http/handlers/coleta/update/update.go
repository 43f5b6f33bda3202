// Package update serves PUT /api/dia/{nome}.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/handlers/coleta/day"
	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

const msgTipoRequired = "Tipo de coleta é obrigatório"

type Service interface {
	UpdateDay(ctx context.Context, dia string, req models.DummyColeta) (*models.Coleta, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// InvalidResponse echoes what was received.
type InvalidResponse struct {
	response.Response
	Received models.DummyColeta `json:"received"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary      Update the collection of one weekday
// @Tags         coletas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nome  path  string              true  "weekday"
// @Param        body  body  models.DummyColeta  true  "new type and note"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  InvalidResponse
// @Failure      404  {object}  day.NotFoundResponse
// @Router       /api/dia/{nome} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coleta.update"
	nome := day.Param(r)
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("dia", nome),
	)

	var req models.DummyColeta
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "Pedido inválido", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.invalid(w, r, req)
		return
	}

	coleta, err := h.service.UpdateDay(r.Context(), nome, req)
	switch {
	case errors.Is(err, storage.ErrValidation):
		log.Info("blank collection type")
		h.invalid(w, r, req)
		return
	case errors.Is(err, storage.ErrNotFound):
		log.Info("unknown weekday")
		day.UnknownDay(w, r)
		return
	case err != nil:
		log.Error("failed to update day", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "Erro ao atualizar coleta", err)
		return
	}

	log.Info("collection updated", slog.String("tipo_coleta", coleta.TipoColeta))
	resp := response.OK(coleta)
	resp.Message = "Coleta atualizada com sucesso"
	render.JSON(w, r, resp)
}

func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, req models.DummyColeta) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, InvalidResponse{
		Response: response.Error(msgTipoRequired),
		Received: req,
	})
}
