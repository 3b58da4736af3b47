// Package memory is an in-memory store used for tests and for running
// without a database. Optionally seeded from a JSON snapshot file.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"billfold/internal/core"
)

type Store struct {
	mu         sync.Mutex
	templates  map[string]core.RecurringTemplate
	sources    map[string]core.PaymentSource
	categories map[string]core.Category
	months     map[string]*core.MonthlyData
}

// seed is the snapshot shape accepted by NewFromFile.
type seed struct {
	Templates  []core.RecurringTemplate `json:"templates"`
	Sources    []core.PaymentSource     `json:"payment_sources"`
	Categories []core.Category          `json:"categories"`
}

func New() *Store {
	return &Store{
		templates:  map[string]core.RecurringTemplate{},
		sources:    map[string]core.PaymentSource{},
		categories: map[string]core.Category{},
		months:     map[string]*core.MonthlyData{},
	}
}

// NewFromDir loads seed.json from the data directory when present; a
// missing or unreadable seed just yields an empty store.
func NewFromDir(dir string) *Store {
	s := New()
	data, err := os.ReadFile(filepath.Join(dir, "seed.json"))
	if err != nil {
		return s
	}
	var sd seed
	if err := json.Unmarshal(data, &sd); err != nil {
		return s
	}
	for _, t := range sd.Templates {
		s.templates[t.ID] = t
	}
	for _, src := range sd.Sources {
		s.sources[src.ID] = src
	}
	for _, c := range sd.Categories {
		s.categories[c.ID] = c
	}
	return s
}

func (s *Store) ListActiveTemplates(_ context.Context) ([]core.RecurringTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringTemplate
	for _, t := range s.templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	// Stable order keeps month syncs deterministic.
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Store) SaveTemplate(_ context.Context, t core.RecurringTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
	return nil
}

func (s *Store) ListPaymentSources(_ context.Context) ([]core.PaymentSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.PaymentSource, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Store) SavePaymentSource(_ context.Context, src core.PaymentSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID] = src
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return nil
}

func (s *Store) GetMonth(_ context.Context, month core.Month) (*core.MonthlyData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	md, ok := s.months[month.String()]
	if !ok {
		return nil, nil
	}
	return md.Clone(), nil
}

func (s *Store) PutMonth(_ context.Context, md *core.MonthlyData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[md.Month.String()] = md.Clone()
	return nil
}

func (s *Store) DeleteMonth(_ context.Context, month core.Month) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.months, month.String())
	return nil
}

func (s *Store) Close() error {
	return nil
}
