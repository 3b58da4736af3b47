package services

import (
	"fmt"

	"github.com/google/uuid"

	"billfold/internal/core"
)

// Payment carries the details of a closing payment. Closing is at-most-once
// per occurrence; an uneven split is achieved by editing occurrence amounts
// before closing, not by stacking partial payments.
type Payment struct {
	Date            core.Date
	PaymentSourceID string // optional source override
	Notes           string
}

// AdhocInstanceFields describes a templateless instance added by the user.
type AdhocInstanceFields struct {
	Kind            core.Kind
	Name            string
	CategoryID      string
	PaymentSourceID string
	ExpectedAmount  core.Money
	ExpectedDate    core.Date
	Notes           string
}

// RecordPayment closes an occurrence. Instance-level expected amount and
// closed state are derived accessors, so no recomputation step can be
// forgotten here.
func RecordPayment(md *core.MonthlyData, instanceID, occurrenceID string, p Payment) error {
	occ, err := findOccurrence(md, instanceID, occurrenceID)
	if err != nil {
		return err
	}
	if p.Date.IsEmpty() {
		return fmt.Errorf("record payment: closed date: %w", core.ErrInvalidDate)
	}
	occ.IsClosed = true
	occ.ClosedDate = p.Date
	if p.PaymentSourceID != "" {
		occ.PaymentSourceID = p.PaymentSourceID
	}
	if p.Notes != "" {
		occ.Notes = p.Notes
	}
	return nil
}

// ReopenOccurrence reverts a close, for user correction. The expected
// amount is untouched by open/close cycling.
func ReopenOccurrence(md *core.MonthlyData, instanceID, occurrenceID string) error {
	occ, err := findOccurrence(md, instanceID, occurrenceID)
	if err != nil {
		return err
	}
	occ.IsClosed = false
	occ.ClosedDate = core.Date{}
	return nil
}

// UpdateOccurrenceAmount edits the expected amount of a single occurrence,
// detaching it from the template amount.
func UpdateOccurrenceAmount(md *core.MonthlyData, instanceID, occurrenceID string, amount core.Money) error {
	occ, err := findOccurrence(md, instanceID, occurrenceID)
	if err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return fmt.Errorf("update occurrence amount: %w", err)
	}
	occ.ExpectedAmount = amount
	return nil
}

// AddAdhocOccurrence appends a user-added occurrence to an existing
// instance. Ad-hoc occurrences are first-class: the synchronizer merges
// around them and never deletes them.
func AddAdhocOccurrence(md *core.MonthlyData, instanceID string, amount core.Money, date core.Date) (string, error) {
	if md.IsReadOnly {
		return "", fmt.Errorf("add occurrence: %w", core.ErrMonthLocked)
	}
	inst := md.Instance(instanceID)
	if inst == nil {
		return "", fmt.Errorf("add occurrence: instance %s: %w", instanceID, core.ErrNotFound)
	}
	if err := amount.Validate(); err != nil {
		return "", fmt.Errorf("add occurrence: %w", err)
	}
	if date.IsEmpty() {
		return "", fmt.Errorf("add occurrence: %w", core.ErrInvalidDate)
	}
	occ := core.Occurrence{
		ID:             uuid.NewString(),
		ExpectedDate:   date,
		ExpectedAmount: amount,
		IsAdhoc:        true,
	}
	inst.Occurrences = append(inst.Occurrences, occ)
	inst.Normalize()
	return occ.ID, nil
}

// RemoveAdhocOccurrence deletes a user-added occurrence. Generator-owned
// occurrences cannot be removed this way.
func RemoveAdhocOccurrence(md *core.MonthlyData, instanceID, occurrenceID string) error {
	if md.IsReadOnly {
		return fmt.Errorf("remove occurrence: %w", core.ErrMonthLocked)
	}
	inst := md.Instance(instanceID)
	if inst == nil {
		return fmt.Errorf("remove occurrence: instance %s: %w", instanceID, core.ErrNotFound)
	}
	for idx := range inst.Occurrences {
		o := inst.Occurrences[idx]
		if o.ID != occurrenceID {
			continue
		}
		if !o.IsAdhoc {
			return fmt.Errorf("remove occurrence %s: %w", occurrenceID, core.ErrNotAdhoc)
		}
		inst.Occurrences = append(inst.Occurrences[:idx], inst.Occurrences[idx+1:]...)
		inst.Normalize()
		return nil
	}
	return fmt.Errorf("remove occurrence %s: %w", occurrenceID, core.ErrNotFound)
}

// AddAdhocInstance adds a whole templateless instance (an unexpected
// one-off bill or income) with a single ad-hoc occurrence.
func AddAdhocInstance(md *core.MonthlyData, f AdhocInstanceFields) (string, error) {
	if md.IsReadOnly {
		return "", fmt.Errorf("add instance: %w", core.ErrMonthLocked)
	}
	if f.Name == "" {
		return "", fmt.Errorf("add instance: %w", core.ErrEmptyName)
	}
	if !f.Kind.Valid() {
		return "", fmt.Errorf("add instance: kind %q: %w", f.Kind, core.ErrInvalidKind)
	}
	if err := f.ExpectedAmount.Validate(); err != nil {
		return "", fmt.Errorf("add instance: %w", err)
	}
	if f.ExpectedDate.IsEmpty() {
		return "", fmt.Errorf("add instance: %w", core.ErrInvalidDate)
	}
	inst := core.Instance{
		ID:              uuid.NewString(),
		Kind:            f.Kind,
		Name:            f.Name,
		Month:           md.Month,
		BillingPeriod:   core.PeriodMonthly,
		CategoryID:      f.CategoryID,
		PaymentSourceID: f.PaymentSourceID,
		IsAdhoc:         true,
		Occurrences: []core.Occurrence{{
			ID:             uuid.NewString(),
			Sequence:       1,
			ExpectedDate:   f.ExpectedDate,
			ExpectedAmount: f.ExpectedAmount,
			Notes:          f.Notes,
			IsAdhoc:        true,
		}},
	}
	list := md.InstancesFor(f.Kind)
	*list = append(*list, inst)
	return inst.ID, nil
}

func findOccurrence(md *core.MonthlyData, instanceID, occurrenceID string) (*core.Occurrence, error) {
	if md.IsReadOnly {
		return nil, fmt.Errorf("month %s: %w", md.Month, core.ErrMonthLocked)
	}
	inst := md.Instance(instanceID)
	if inst == nil {
		return nil, fmt.Errorf("instance %s: %w", instanceID, core.ErrNotFound)
	}
	occ := inst.Occurrence(occurrenceID)
	if occ == nil {
		return nil, fmt.Errorf("occurrence %s: %w", occurrenceID, core.ErrNotFound)
	}
	return occ, nil
}
