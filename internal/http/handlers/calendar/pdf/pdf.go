// Package pdf serves GET /api/calendario.pdf.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/sender"
)

type Service interface {
	RenderCalendar(ctx context.Context) ([]byte, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary      Download the weekly calendar as PDF
// @Tags         calendar
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/calendario.pdf [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.calendar.pdf"

	doc, err := h.service.RenderCalendar(r.Context())
	switch {
	case errors.Is(err, notifier.ErrNoData):
		response.Fail(w, r, http.StatusNotFound, "Nenhuma coleta encontrada", nil)
		return
	case err != nil:
		h.log.Error("failed to render calendar",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.Fail(w, r, http.StatusInternalServerError, "Erro ao gerar PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sender.AttachmentName(time.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
