// Package store defines the persistence ports the engine is wired to.
// Implementations are expected to behave as a key-addressable document
// store: templates, sources and categories by id, month records by month.
package store

import (
	"context"

	"billfold/internal/core"
)

// TemplateStore reads and writes recurring bill/income templates.
type TemplateStore interface {
	// ListActiveTemplates returns every template with is_active set, in a
	// stable order.
	ListActiveTemplates(ctx context.Context) ([]core.RecurringTemplate, error)
	SaveTemplate(ctx context.Context, t core.RecurringTemplate) error
}

// SourceStore reads and writes payment sources.
type SourceStore interface {
	ListPaymentSources(ctx context.Context) ([]core.PaymentSource, error)
	SavePaymentSource(ctx context.Context, s core.PaymentSource) error
}

// CategoryStore reads and writes categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	SaveCategory(ctx context.Context, c core.Category) error
}

// MonthStore reads and replaces whole month records. GetMonth returns
// (nil, nil) for a month that has not been generated yet; PutMonth
// atomically replaces the stored record.
type MonthStore interface {
	GetMonth(ctx context.Context, month core.Month) (*core.MonthlyData, error)
	PutMonth(ctx context.Context, md *core.MonthlyData) error
	DeleteMonth(ctx context.Context, month core.Month) error
}

// Store is the full persistence surface the engine facade needs.
type Store interface {
	TemplateStore
	SourceStore
	CategoryStore
	MonthStore
	Close() error
}
