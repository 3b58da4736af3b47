package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"billfold/internal/cache"
	"billfold/internal/core"
	"billfold/internal/log"
	"billfold/internal/store"
)

// EventPublisher announces that a month's stored record changed. A nil
// publisher disables notifications.
type EventPublisher interface {
	PublishMonthSync(ctx context.Context, month string) error
}

// BudgetService ties the pure engine to a store and serializes mutations
// per month. The engine's merge logic works from a single consistent
// snapshot and returns a single consistent replacement; the per-month lock
// here is what makes that assumption hold under concurrent callers.
type BudgetService struct {
	store  store.Store
	events EventPublisher
	now    func() time.Time
	views  *cache.LRU[*DetailedMonth]

	mu     sync.Mutex
	months map[core.Month]*sync.Mutex
}

func NewBudgetService(st store.Store, events EventPublisher) *BudgetService {
	return &BudgetService{
		store:  st,
		events: events,
		now:    time.Now,
		views:  cache.NewLRU[*DetailedMonth](24, 5*time.Minute),
		months: map[core.Month]*sync.Mutex{},
	}
}

// WithClock overrides the service clock, for tests.
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

func (s *BudgetService) lockMonth(month core.Month) func() {
	s.mu.Lock()
	l, ok := s.months[month]
	if !ok {
		l = &sync.Mutex{}
		s.months[month] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// GenerateOrSyncMonth ensures the month exists and reflects the current
// active template set, then persists the full replacement record.
func (s *BudgetService) GenerateOrSyncMonth(ctx context.Context, month core.Month) (*core.MonthlyData, error) {
	unlock := s.lockMonth(month)
	defer unlock()

	templates, err := s.store.ListActiveTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	sources, err := s.store.ListPaymentSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment sources: %w", err)
	}
	current, err := s.store.GetMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("get month %s: %w", month, err)
	}
	previous, err := s.store.GetMonth(ctx, month.Prev())
	if err != nil {
		return nil, fmt.Errorf("get month %s: %w", month.Prev(), err)
	}

	md, err := SyncMonth(SyncInput{
		Month:     month,
		Templates: templates,
		Sources:   sources,
		Current:   current,
		Previous:  previous,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.PutMonth(ctx, md); err != nil {
		return nil, fmt.Errorf("put month %s: %w", month, err)
	}
	s.views.Delete(month.String())

	slog.InfoContext(ctx, "Month synchronized",
		log.FieldMonth, month.String(),
		"templates", len(templates),
		"bills", len(md.Bills),
		"incomes", len(md.Incomes),
		"fresh", current == nil)

	s.publish(ctx, month)
	return md, nil
}

// RecordOccurrencePayment closes an occurrence with the given payment. A
// zero payment date defaults to today.
func (s *BudgetService) RecordOccurrencePayment(ctx context.Context, month core.Month, instanceID, occurrenceID string, p Payment) (*core.MonthlyData, error) {
	if p.Date.IsEmpty() {
		now := s.now()
		p.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	slog.DebugContext(ctx, "Recording payment", log.NewFields().
		WithMonth(month.String()).
		WithOccurrence(instanceID, occurrenceID).
		ToSlice()...)
	return s.mutate(ctx, month, "record payment", func(md *core.MonthlyData) error {
		return RecordPayment(md, instanceID, occurrenceID, p)
	})
}

func (s *BudgetService) ReopenOccurrence(ctx context.Context, month core.Month, instanceID, occurrenceID string) (*core.MonthlyData, error) {
	return s.mutate(ctx, month, "reopen occurrence", func(md *core.MonthlyData) error {
		return ReopenOccurrence(md, instanceID, occurrenceID)
	})
}

func (s *BudgetService) AddAdhocOccurrence(ctx context.Context, month core.Month, instanceID string, amount core.Money, date core.Date) (occurrenceID string, err error) {
	_, err = s.mutate(ctx, month, "add adhoc occurrence", func(md *core.MonthlyData) error {
		occurrenceID, err = AddAdhocOccurrence(md, instanceID, amount, date)
		return err
	})
	return occurrenceID, err
}

func (s *BudgetService) RemoveAdhocOccurrence(ctx context.Context, month core.Month, instanceID, occurrenceID string) error {
	_, err := s.mutate(ctx, month, "remove adhoc occurrence", func(md *core.MonthlyData) error {
		return RemoveAdhocOccurrence(md, instanceID, occurrenceID)
	})
	return err
}

func (s *BudgetService) AddAdhocInstance(ctx context.Context, month core.Month, f AdhocInstanceFields) (instanceID string, err error) {
	_, err = s.mutate(ctx, month, "add adhoc instance", func(md *core.MonthlyData) error {
		instanceID, err = AddAdhocInstance(md, f)
		return err
	})
	return instanceID, err
}

// UpdateBankBalances sets the entered balances for the given sources.
// Entries for sources not mentioned are kept as they are.
func (s *BudgetService) UpdateBankBalances(ctx context.Context, month core.Month, balances map[string]core.Money) (*core.MonthlyData, error) {
	return s.mutate(ctx, month, "update bank balances", func(md *core.MonthlyData) error {
		if md.IsReadOnly {
			return fmt.Errorf("month %s: %w", month, core.ErrMonthLocked)
		}
		if md.BankBalances == nil {
			md.BankBalances = map[string]core.Money{}
		}
		for id, v := range balances {
			md.BankBalances[id] = v
		}
		return nil
	})
}

// LockMonth toggles the read-only flag. Unlocking is exempt from the
// locked-month barrier, or nothing could ever be unlocked.
func (s *BudgetService) LockMonth(ctx context.Context, month core.Month, lock bool) error {
	_, err := s.mutate(ctx, month, "lock month", func(md *core.MonthlyData) error {
		md.IsReadOnly = lock
		return nil
	})
	return err
}

// GetDetailedMonth aggregates the stored month into the detailed view. It
// does not generate the month as a side effect; sync first. Views are
// memoized briefly and dropped whenever the month mutates.
func (s *BudgetService) GetDetailedMonth(ctx context.Context, month core.Month) (*DetailedMonth, error) {
	if dm, ok := s.views.Get(month.String()); ok {
		return dm, nil
	}
	md, err := s.store.GetMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("get month %s: %w", month, err)
	}
	if md == nil {
		return nil, fmt.Errorf("month %s: %w", month, core.ErrNotFound)
	}
	sources, err := s.store.ListPaymentSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment sources: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	dm := BuildDetailedMonth(md, sources, categories, s.now())
	s.views.Set(month.String(), dm)
	return dm, nil
}

// mutate runs fn against the current month record and persists the result.
// Any error from fn aborts with no partial state change.
func (s *BudgetService) mutate(ctx context.Context, month core.Month, op string, fn func(*core.MonthlyData) error) (*core.MonthlyData, error) {
	unlock := s.lockMonth(month)
	defer unlock()

	md, err := s.store.GetMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("%s: get month %s: %w", op, month, err)
	}
	if md == nil {
		return nil, fmt.Errorf("%s: month %s: %w", op, month, core.ErrNotFound)
	}
	if err := fn(md); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.PutMonth(ctx, md); err != nil {
		return nil, fmt.Errorf("%s: put month %s: %w", op, month, err)
	}
	s.views.Delete(month.String())
	slog.InfoContext(ctx, "Month updated", log.NewFields().
		WithOperation(op).
		WithMonth(month.String()).
		ToSlice()...)
	s.publish(ctx, month)
	return md, nil
}

// publish is best effort; a broker outage never fails a mutation.
func (s *BudgetService) publish(ctx context.Context, month core.Month) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMonthSync(ctx, month.String()); err != nil {
		slog.WarnContext(ctx, "Failed to publish month sync event", log.NewFields().
			WithMonth(month.String()).
			WithError(err).
			ToSlice()...)
	}
}
