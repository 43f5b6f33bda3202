// Package emailtemplate serves GET and PUT /api/emails/template.
package emailtemplate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

type Service interface {
	Template(ctx context.Context) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error
}

// Handler answers both methods of the template resource.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Get godoc
// @Summary      Current email template
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/emails/template [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.template.Get"

	tpl, err := h.service.Template(r.Context())
	if err != nil {
		h.log.Error("failed to load template",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal, err)
		return
	}
	render.JSON(w, r, response.OK(tpl))
}

// Put godoc
// @Summary      Replace the email template
// @Tags         emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  models.EmailTemplate  true  "template"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/emails/template [put]
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.template.Put"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var tpl models.EmailTemplate
	if err := render.DecodeJSON(r.Body, &tpl); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "Pedido inválido", err)
		return
	}
	if err := h.validate.Struct(tpl); err != nil {
		var verrs validator.ValidationErrors
		msg := "Assunto do email é obrigatório"
		if errors.As(err, &verrs) {
			log.Info("validation failed", slog.String("reason", response.ValidationError(verrs)))
		}
		response.Fail(w, r, http.StatusBadRequest, msg, err)
		return
	}

	err := h.service.SaveTemplate(r.Context(), tpl)
	switch {
	case errors.Is(err, storage.ErrValidation):
		response.Fail(w, r, http.StatusBadRequest, "Assunto do email é obrigatório", err)
		return
	case err != nil:
		log.Error("failed to save template", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal, err)
		return
	}

	log.Info("template replaced")
	resp := response.OK(tpl)
	resp.Message = "Template atualizado com sucesso"
	render.JSON(w, r, resp)
}
