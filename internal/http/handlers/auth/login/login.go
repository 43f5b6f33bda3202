// Package login serves POST /api/auth/login.
package login

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
	"github.com/magabrotheeeer/coleta-calendar/internal/services/auth"
)

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Response struct {
	response.Response
	Token string `json:"token,omitempty"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary      Exchange admin credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.DummyLogin  true  "credentials"
// @Success      200  {object}  Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "Pedido inválido", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		msg := "Pedido inválido"
		if errors.As(err, &verrs) {
			msg = response.ValidationError(verrs)
		}
		response.Fail(w, r, http.StatusBadRequest, msg, nil)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrDisabled):
		response.Fail(w, r, http.StatusNotFound, "Autenticação não configurada", nil)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Warn("rejected admin login", slog.String("username", req.Username))
		response.Fail(w, r, http.StatusUnauthorized, "Credenciais inválidas", nil)
		return
	case err != nil:
		log.Error("failed to log in", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, response.MsgInternal, err)
		return
	}

	log.Info("admin logged in", slog.String("username", req.Username))
	render.JSON(w, r, Response{Response: response.OK(nil), Token: token})
}
