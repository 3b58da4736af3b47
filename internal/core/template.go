package core

import (
	"fmt"
	"strings"
)

// Kind separates bill templates and instances from income ones. The two are
// structurally identical; the kind decides which side of the ledger they
// land on downstream.
type Kind string

const (
	KindBill   Kind = "bill"
	KindIncome Kind = "income"
)

func (k Kind) Valid() bool {
	return k == KindBill || k == KindIncome
}

type BillingPeriod string

const (
	PeriodMonthly      BillingPeriod = "monthly"
	PeriodBiWeekly     BillingPeriod = "bi_weekly"
	PeriodWeekly       BillingPeriod = "weekly"
	PeriodSemiAnnually BillingPeriod = "semi_annually"
)

func (p BillingPeriod) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodBiWeekly, PeriodWeekly, PeriodSemiAnnually:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentAuto   PaymentMethod = "auto"
	PaymentManual PaymentMethod = "manual"
)

// RecurringTemplate describes one recurring bill or income: its schedule
// anchor, amount and bookkeeping links. Monthly templates anchor on either
// a day of month or an Nth-weekday rule; interval periods anchor on a
// concrete start date acting as the recurrence seed.
type RecurringTemplate struct {
	ID            string        `json:"id"`
	Kind          Kind          `json:"kind"`
	Name          string        `json:"name"`
	Amount        Money         `json:"amount"`
	BillingPeriod BillingPeriod `json:"billing_period"`

	// Anchor: exactly one form per billing period.
	DayOfMonth     int  `json:"day_of_month,omitempty"`
	RecurrenceWeek int  `json:"recurrence_week,omitempty"` // 1-5, 5 means "last"
	RecurrenceDay  int  `json:"recurrence_day,omitempty"`  // 0=Sunday .. 6=Saturday
	StartDate      Date `json:"start_date,omitempty"`

	PaymentSourceID string            `json:"payment_source_id,omitempty"`
	CategoryID      string            `json:"category_id,omitempty"`
	PaymentMethod   PaymentMethod     `json:"payment_method,omitempty"`
	IsActive        bool              `json:"is_active"`
	GoalID          string            `json:"goal_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Validate checks the anchor rules enforced at template-creation time. The
// occurrence generator itself stays defensive and never relies on these
// holding for stored records.
func (t RecurringTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("template %q: kind %q: %w", t.Name, t.Kind, ErrInvalidKind)
	}
	if err := t.Amount.Validate(); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	if !t.BillingPeriod.Valid() {
		return fmt.Errorf("template %q: period %q: %w", t.Name, t.BillingPeriod, ErrInvalidPeriod)
	}
	switch t.BillingPeriod {
	case PeriodMonthly:
		hasDay := t.DayOfMonth >= 1 && t.DayOfMonth <= 31
		hasWeekRule := t.RecurrenceWeek >= 1 && t.RecurrenceWeek <= 5 &&
			t.RecurrenceDay >= 0 && t.RecurrenceDay <= 6
		if hasDay == hasWeekRule {
			return fmt.Errorf("template %q: monthly needs day_of_month or a week rule, not both: %w", t.Name, ErrInvalidAnchor)
		}
	default:
		if t.StartDate.IsEmpty() {
			return fmt.Errorf("template %q: %s needs a start date: %w", t.Name, t.BillingPeriod, ErrInvalidAnchor)
		}
	}
	return nil
}
