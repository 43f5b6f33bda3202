// Package response builds the JSON envelopes returned by every handler and
// maps domain errors onto HTTP status codes.
package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Common messages.
const (
	MsgInternal = "Erro interno do servidor"
	MsgNotFound = "Endpoint não encontrado"
)

// Response is the envelope shared by most endpoints.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Now returns the current time formatted for the timestamp field.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data, Timestamp: Now()}
}

// Error returns a failed envelope carrying msg.
func Error(msg string) Response {
	return Response{Success: false, Error: msg}
}

type ctxKey struct{}

// WithDetails marks requests whose error responses may include the
// underlying error text.
func WithDetails(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func detailsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxKey{}).(bool)
	return enabled
}

// Fail writes a failed envelope with status. err is exposed as details only
// when the request was marked with WithDetails.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	resp := Error(msg)
	if err != nil && detailsEnabled(r.Context()) {
		resp.Details = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// StatusFor classifies err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadySubscribed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError joins validator failures into one readable message.
func ValidationError(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "contains":
			msgs = append(msgs, fmt.Sprintf("field %s must contain %q", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, Error(MsgNotFound))
}
