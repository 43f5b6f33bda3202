// Package subscribe serves POST /api/emails/subscribe.
package subscribe

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

// Subscription states reported back to the client.
const (
	StatusNew         = "new"
	StatusReactivated = "reactivated"
)

type Service interface {
	Subscribe(ctx context.Context, email string) (*models.Subscription, bool, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Result describes the stored subscription.
type Result struct {
	Email            string `json:"email"`
	Status           string `json:"status"`
	UnsubscribeToken string `json:"unsubscribe_token"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary      Subscribe an email to the calendar
// @Tags         emails
// @Accept       json
// @Produce      json
// @Param        body  body  models.DummySubscribe  true  "email"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /api/emails/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscribe
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "Email inválido", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		msg := err.Error()
		if errors.As(err, &verrs) {
			msg = response.ValidationError(verrs)
		}
		log.Info("validation failed", slog.String("reason", msg))
		response.Fail(w, r, http.StatusBadRequest, "Email inválido", err)
		return
	}

	sub, isNew, err := h.service.Subscribe(r.Context(), req.Email)
	switch {
	case errors.Is(err, storage.ErrValidation):
		response.Fail(w, r, http.StatusBadRequest, "Email inválido", err)
		return
	case errors.Is(err, storage.ErrAlreadySubscribed):
		log.Info("email already subscribed")
		response.Fail(w, r, http.StatusConflict, "Este email já está subscrito", nil)
		return
	case err != nil:
		log.Error("failed to subscribe", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal, err)
		return
	}

	status := StatusReactivated
	if isNew {
		status = StatusNew
	}
	resp := response.OK(Result{
		Email:            sub.Email,
		Status:           status,
		UnsubscribeToken: sub.UnsubscribeToken,
	})
	resp.Message = "Email subscrito com sucesso! Receberá o calendário em breve."
	render.JSON(w, r, resp)
}
