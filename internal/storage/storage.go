// Package storage defines the persistence contract shared by every backend:
// the weekday record store, the subscription store and the email template
// store, together with the sentinel errors the HTTP layer classifies.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/weekday"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

var (
	// ErrNotFound is returned for an unknown weekday or cancellation token.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a required field is missing or blank.
	ErrValidation = errors.New("validation failed")
	// ErrAlreadySubscribed is returned when the email already has an active subscription.
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// ColetaStore keeps the seven weekday records.
type ColetaStore interface {
	// ListColetas returns all records, Monday first.
	ListColetas(ctx context.Context) ([]models.Coleta, error)
	// GetColeta looks a record up by weekday name, ignoring case.
	GetColeta(ctx context.Context, dia string) (*models.Coleta, error)
	// UpdateColeta replaces type and note of one weekday and stamps updated_at.
	UpdateColeta(ctx context.Context, dia, tipo string, observacao *string) (*models.Coleta, error)
}

// SubscriptionStore keeps the mailing list.
type SubscriptionStore interface {
	// Subscribe creates or reactivates the subscription of email with the given
	// token. isNew is false when an inactive row was reactivated.
	Subscribe(ctx context.Context, email, token string) (sub *models.Subscription, isNew bool, err error)
	// ListActiveEmails returns the addresses eligible for a broadcast.
	ListActiveEmails(ctx context.Context) ([]string, error)
	// UnsubscribeByToken deactivates the active subscription holding token.
	UnsubscribeByToken(ctx context.Context, token string) (*models.Subscription, error)
	// RefreshToken stores a newly issued token for an active email.
	RefreshToken(ctx context.Context, email, token string) error
	// SubscriptionStats counts active and inactive rows.
	SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error)
}

// TemplateStore keeps the email template singleton.
type TemplateStore interface {
	GetTemplate(ctx context.Context) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error
}

// Storage is implemented by each backend.
type Storage interface {
	ColetaStore
	SubscriptionStore
	TemplateStore
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend resources.
	Close() error
}

// DefaultColetas is the table seeded into an empty store.
func DefaultColetas() []models.DefaultColeta {
	return []models.DefaultColeta{
		{DiaSemana: weekday.Monday, TipoColeta: "orgânicos"},
		{DiaSemana: weekday.Tuesday, TipoColeta: "metal/plástico"},
		{DiaSemana: weekday.Wednesday, TipoColeta: "orgânicos"},
		{DiaSemana: weekday.Thursday, TipoColeta: "papel/cartão"},
		{DiaSemana: weekday.Friday, TipoColeta: "orgânicos"},
		{DiaSemana: weekday.Saturday, TipoColeta: "metal/plástico"},
		{DiaSemana: weekday.Sunday, TipoColeta: "sem coleta"},
	}
}

// DefaultTemplate is the email template seeded into an empty store.
func DefaultTemplate() models.EmailTemplate {
	return models.EmailTemplate{
		Subject:        "📅 Calendário de Coleta de Lixo - São João de Ver",
		Greeting:       "Caro(a) munícipe,",
		MainMessage:    "Agradecemos por ter fornecido o seu endereço de email para receber o calendário de coleta de lixo de São João de Ver.",
		PDFDescription: "Em anexo encontrará o PDF com o calendário completo dos dias e tipos de coleta seletiva na nossa freguesia, que tivemos o prazer de montar e enviar especialmente para si.",
		Features: []string{
			"📅 Dias da semana para cada tipo de coleta",
			"♻️ Tipos de resíduos (orgânicos, metal/plástico, papel/cartão, etc.)",
			"⏰ Horários e instruções importantes",
			"📋 Observações especiais e alterações",
		},
		ClosingMessage:     "Esperamos que esta informação seja útil para si e contribua para uma melhor gestão dos resíduos na nossa comunidade.",
		Signature:          "Sistema de Coleta de Lixo - São João de Ver",
		UnsubscribeMessage: "Este é um serviço de informação sobre coleta de lixo. Se desejar ser removido(a) da nossa lista de envios, por favor entre em contacto connosco através do email " + models.ContactEmailPlaceholder,
		FooterMessage:      "Este email foi enviado automaticamente pelo Sistema de Coleta de Lixo de São João de Ver.",
	}
}

// CanonicalDay resolves user input to a stored weekday name.
func CanonicalDay(dia string) (string, error) {
	name, ok := weekday.Parse(dia)
	if !ok {
		return "", fmt.Errorf("weekday %q: %w", dia, ErrNotFound)
	}
	return name, nil
}

// PrepareUpdate trims the update input. A blank tipo fails with
// ErrValidation; a blank or missing observacao becomes nil.
func PrepareUpdate(tipo string, observacao *string) (string, *string, error) {
	tipo = strings.TrimSpace(tipo)
	if tipo == "" {
		return "", nil, fmt.Errorf("tipo_coleta is required: %w", ErrValidation)
	}
	if observacao == nil {
		return tipo, nil, nil
	}
	obs := strings.TrimSpace(*observacao)
	if obs == "" {
		return tipo, nil, nil
	}
	return tipo, &obs, nil
}

// SortColetas orders records Monday first; unknown weekdays go last.
func SortColetas(coletas []models.Coleta) {
	sort.SliceStable(coletas, func(i, j int) bool {
		return position(coletas[i].DiaSemana) < position(coletas[j].DiaSemana)
	})
}

func position(name string) int {
	if pos, ok := weekday.Position(name); ok {
		return pos
	}
	return len(weekday.All())
}

// ValidateTemplate checks the fields an outgoing email cannot do without.
func ValidateTemplate(tpl models.EmailTemplate) error {
	if strings.TrimSpace(tpl.Subject) == "" {
		return fmt.Errorf("subject is required: %w", ErrValidation)
	}
	return nil
}
