package core

import "sort"

// Occurrence is one expected cash-flow event inside an instance: a date and
// an amount, closed once the money actually moved. Closing is binary; a
// split payment is modelled as several occurrences, not several payments
// against one.
type Occurrence struct {
	ID              string `json:"id"`
	Sequence        int    `json:"sequence"`
	ExpectedDate    Date   `json:"expected_date"`
	ExpectedAmount  Money  `json:"expected_amount"`
	IsClosed        bool   `json:"is_closed"`
	ClosedDate      Date   `json:"closed_date,omitempty"`
	PaymentSourceID string `json:"payment_source_id,omitempty"`
	Notes           string `json:"notes,omitempty"`
	IsAdhoc         bool   `json:"is_adhoc,omitempty"`
}

// Instance is the per-month materialization of one template, or a pure
// ad-hoc item with no template behind it. Expected amount and closed state
// are derived from the occurrence list, never stored, so they cannot drift.
type Instance struct {
	ID              string            `json:"id"`
	TemplateID      string            `json:"template_id,omitempty"`
	Kind            Kind              `json:"kind"`
	Name            string            `json:"name"`
	Month           Month             `json:"month"`
	BillingPeriod   BillingPeriod     `json:"billing_period"`
	CategoryID      string            `json:"category_id,omitempty"`
	PaymentSourceID string            `json:"payment_source_id,omitempty"`
	GoalID          string            `json:"goal_id,omitempty"`
	Occurrences     []Occurrence      `json:"occurrences"`
	IsDefault       bool              `json:"is_default"`
	IsAdhoc         bool              `json:"is_adhoc,omitempty"`
	IsPayoffBill    bool              `json:"is_payoff_bill,omitempty"`
	PayoffSourceID  string            `json:"payoff_source_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ExpectedAmount is the sum of all occurrence expected amounts.
func (i *Instance) ExpectedAmount() Money {
	var total Money
	for _, o := range i.Occurrences {
		total = total.Add(o.ExpectedAmount)
	}
	return total
}

// ActualAmount is the sum over closed occurrences.
func (i *Instance) ActualAmount() Money {
	var total Money
	for _, o := range i.Occurrences {
		if o.IsClosed {
			total = total.Add(o.ExpectedAmount)
		}
	}
	return total
}

// RemainingAmount is the sum over still-open occurrences.
func (i *Instance) RemainingAmount() Money {
	var total Money
	for _, o := range i.Occurrences {
		if !o.IsClosed {
			total = total.Add(o.ExpectedAmount)
		}
	}
	return total
}

// IsClosed reports whether every occurrence is closed. An empty occurrence
// list is not closed.
func (i *Instance) IsClosed() bool {
	if len(i.Occurrences) == 0 {
		return false
	}
	for _, o := range i.Occurrences {
		if !o.IsClosed {
			return false
		}
	}
	return true
}

// ClosedDate is the latest closed date when the instance is fully closed,
// zero otherwise.
func (i *Instance) ClosedDate() Date {
	if !i.IsClosed() {
		return Date{}
	}
	var latest Date
	for _, o := range i.Occurrences {
		if latest.IsEmpty() || o.ClosedDate.After(latest.Time) {
			latest = o.ClosedDate
		}
	}
	return latest
}

// NextOpenDate is the earliest expected date among open occurrences, zero
// when everything is closed.
func (i *Instance) NextOpenDate() Date {
	var next Date
	for _, o := range i.Occurrences {
		if o.IsClosed {
			continue
		}
		if next.IsEmpty() || o.ExpectedDate.Before(next.Time) {
			next = o.ExpectedDate
		}
	}
	return next
}

// Occurrence finds an occurrence by id, or nil.
func (i *Instance) Occurrence(id string) *Occurrence {
	for idx := range i.Occurrences {
		if i.Occurrences[idx].ID == id {
			return &i.Occurrences[idx]
		}
	}
	return nil
}

// Normalize restores the sequence invariant: occurrences sorted by date
// (stable, so same-day entries keep their relative order) and numbered 1..N.
func (i *Instance) Normalize() {
	sort.SliceStable(i.Occurrences, func(a, b int) bool {
		return i.Occurrences[a].ExpectedDate.Before(i.Occurrences[b].ExpectedDate.Time)
	})
	for idx := range i.Occurrences {
		i.Occurrences[idx].Sequence = idx + 1
	}
}

// Clone deep-copies the instance.
func (i *Instance) Clone() Instance {
	out := *i
	out.Occurrences = append([]Occurrence(nil), i.Occurrences...)
	out.Metadata = cloneStringMap(i.Metadata)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
