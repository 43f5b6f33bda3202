// Package jsonfile implements storage.Storage on three JSON documents kept in
// a data directory. Every write goes to a temporary file first and is then
// renamed over the original.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// File names inside the data directory.
const (
	ColetasFile       = "coletas.json"
	SubscriptionsFile = "email-subscriptions.json"
	TemplateFile      = "email-template.json"

	version         = "1.0.0"
	tmpSuffix       = ".tmp"
	filePermissions = 0o644
)

type metadata struct {
	LastUpdated time.Time `json:"last_updated"`
	Version     string    `json:"version"`
}

type coletasDoc struct {
	Coletas  []models.Coleta `json:"coletas"`
	Metadata metadata        `json:"metadata"`
}

type subscriptionsMeta struct {
	TotalSubscriptions  int       `json:"total_subscriptions"`
	ActiveSubscriptions int       `json:"active_subscriptions"`
	LastUpdated         time.Time `json:"last_updated"`
	Version             string    `json:"version"`
}

type subscriptionsDoc struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
	Metadata      subscriptionsMeta     `json:"metadata"`
}

type templateDoc struct {
	Template models.EmailTemplate `json:"template"`
	Metadata metadata             `json:"metadata"`
}

// Storage is the JSON file backend. A single mutex serialises every
// read-modify-write cycle inside the process.
type Storage struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New opens the data directory, creating it and seeding missing documents.
// An existing coletas document without records is seeded as well.
func New(ctx context.Context, dir string) (*Storage, error) {
	const op = "storage.jsonfile.New"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s := &Storage{dir: dir, now: time.Now}
	if err := s.seed(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *Storage) seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	var c coletasDoc
	if err := s.load(ColetasFile, &c, s.defaultColetas); err != nil {
		return err
	}
	if len(c.Coletas) == 0 {
		if err := s.write(ColetasFile, s.defaultColetas()); err != nil {
			return err
		}
	}
	var subs subscriptionsDoc
	if err := s.load(SubscriptionsFile, &subs, s.defaultSubscriptions); err != nil {
		return err
	}
	var tpl templateDoc
	return s.load(TemplateFile, &tpl, s.defaultTemplate)
}

func (s *Storage) defaultColetas() any {
	now := s.now().UTC()
	defaults := storage.DefaultColetas()
	doc := coletasDoc{
		Coletas:  make([]models.Coleta, 0, len(defaults)),
		Metadata: metadata{LastUpdated: now, Version: version},
	}
	for i, d := range defaults {
		doc.Coletas = append(doc.Coletas, models.Coleta{
			ID:         i + 1,
			DiaSemana:  d.DiaSemana,
			TipoColeta: d.TipoColeta,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return &doc
}

func (s *Storage) defaultSubscriptions() any {
	return &subscriptionsDoc{
		Subscriptions: []models.Subscription{},
		Metadata:      subscriptionsMeta{LastUpdated: s.now().UTC(), Version: version},
	}
}

func (s *Storage) defaultTemplate() any {
	return &templateDoc{
		Template: storage.DefaultTemplate(),
		Metadata: metadata{LastUpdated: s.now().UTC(), Version: version},
	}
}

// load decodes name into v. A missing file is created from def first.
// Caller must hold s.mu.
func (s *Storage) load(name string, v any, def func() any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(name, def()); err != nil {
			return err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// write replaces name atomically. Caller must hold s.mu.
func (s *Storage) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Ping checks that the data directory is still reachable.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.jsonfile.Ping"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close is a no-op; files are not kept open between calls.
func (s *Storage) Close() error { return nil }
