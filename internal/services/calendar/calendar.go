// Package calendar renders the weekly collection schedule as an HTML page
// and prints it to PDF through a PDFEngine.
package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/month"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/weekday"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

// ErrRender is returned when the engine fails or produces an empty document.
var ErrRender = errors.New("calendar render failed")

// PDFEngine prints an HTML document to PDF bytes.
type PDFEngine interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// Style is the icon and card color shown for a collection type.
type Style struct {
	Icon  string
	Color string
}

// DefaultStyle applies to types missing from the styles table.
var DefaultStyle = Style{Icon: "📦", Color: "#f3e8ff"}

var styles = map[string]Style{
	"orgânicos":      {Icon: "🗑️", Color: "#dcfce7"},
	"metal/plástico": {Icon: "♻️", Color: "#fef3c7"},
	"papel/cartão":   {Icon: "📄", Color: "#dbeafe"},
	"vidro":          {Icon: "🍶", Color: "#d1fae5"},
	"resíduos":       {Icon: "🥬", Color: "#fed7aa"},
	"sem coleta":     {Icon: "🚫", Color: "#f3f4f6"},
}

// StyleFor maps a collection type, ignoring case, to its style.
func StyleFor(tipo string) Style {
	if s, ok := styles[strings.ToLower(strings.TrimSpace(tipo))]; ok {
		return s
	}
	return DefaultStyle
}

// Notices is the fixed list printed under the calendar.
var Notices = []string{
	"Coloque os contentores na rua até às 7h00",
	"Retire os contentores após a coleta",
	"Em caso de feriado, consulte as alterações",
	"Separe corretamente os resíduos por tipo",
	"Mantenha os contentores limpos e em bom estado",
}

type dayCard struct {
	Name       string
	Tipo       string
	Observacao string
	Icon       string
	Color      template.CSS // from the styles table, never user input
}

type pageData struct {
	Days        []dayCard
	Notices     []string
	GeneratedAt string
}

var calendarPage = template.Must(template.New("calendar").Parse(calendarHTML))

// Renderer turns records into documents.
type Renderer struct {
	engine PDFEngine
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

// New creates a Renderer. Timestamps are printed in loc; nil means time.Local.
func New(engine PDFEngine, loc *time.Location, log *slog.Logger) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{engine: engine, loc: loc, now: time.Now, log: log}
}

// RenderHTML builds the calendar page. Records are laid out Monday first and
// records with an unknown weekday are dropped.
func (r *Renderer) RenderHTML(records []models.Coleta, generatedAt time.Time) (string, error) {
	const op = "services.calendar.RenderHTML"

	byDay := make(map[string]models.Coleta, len(records))
	for _, c := range records {
		byDay[c.DiaSemana] = c
	}

	data := pageData{
		Notices:     Notices,
		GeneratedAt: FormatDate(generatedAt.In(r.loc)),
	}
	for _, name := range weekday.All() {
		c, ok := byDay[name]
		if !ok {
			continue
		}
		style := StyleFor(c.TipoColeta)
		card := dayCard{
			Name:  c.DiaSemana,
			Tipo:  c.TipoColeta,
			Icon:  style.Icon,
			Color: template.CSS(style.Color),
		}
		if c.Observacao != nil {
			card.Observacao = *c.Observacao
		}
		data.Days = append(data.Days, card)
	}

	var buf bytes.Buffer
	if err := calendarPage.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return buf.String(), nil
}

// RenderPDF prints the calendar of records. It never returns an empty
// document without an error.
func (r *Renderer) RenderPDF(ctx context.Context, records []models.Coleta) ([]byte, error) {
	const op = "services.calendar.RenderPDF"
	log := r.log.With(slog.String("op", op))

	html, err := r.RenderHTML(records, r.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRender, err)
	}

	start := time.Now()
	pdf, err := r.engine.PrintPDF(ctx, html)
	if err != nil {
		log.Error("pdf engine failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRender, err)
	}
	if len(pdf) == 0 {
		log.Error("pdf engine returned an empty document")
		return nil, fmt.Errorf("%s: %w: empty document", op, ErrRender)
	}
	log.Info("pdf generated", slog.Int("bytes", len(pdf)), slog.Duration("took", time.Since(start)))
	return pdf, nil
}

// FormatDate prints t the way Portuguese documents do: "5 de março de 2025, 09:30".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d, %02d:%02d", t.Day(), month.Name(t.Month()), t.Year(), t.Hour(), t.Minute())
}
