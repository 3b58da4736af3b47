package services

import (
	"fmt"

	"github.com/google/uuid"

	"billfold/internal/core"
)

// SyncInput is the full snapshot a month synchronization works from. The
// active template set is an explicit parameter rather than an implicit
// global so a sync is deterministic for a fixed input.
type SyncInput struct {
	Month     core.Month
	Templates []core.RecurringTemplate
	Sources   []core.PaymentSource
	Current   *core.MonthlyData // nil when the month has not been generated yet
	Previous  *core.MonthlyData // preceding month, for balance carry-forward
}

// SyncMonth reconciles a month against the active template set and returns
// a complete replacement record. It never mutates its inputs. The operation
// is idempotent: running it twice with unchanged input yields an identical
// record, with no id churn or reordering.
//
// Merge rules per existing instance: occurrences are matched by date;
// closed and ad-hoc occurrences are never deleted, open generator-owned
// occurrences whose date is no longer produced are dropped, and new dates
// get fresh occurrences. Instances of templates that went inactive are left
// alone as historical record.
func SyncMonth(in SyncInput) (*core.MonthlyData, error) {
	if in.Current != nil && in.Current.IsReadOnly {
		return nil, fmt.Errorf("sync month %s: %w", in.Month, core.ErrMonthLocked)
	}

	var md *core.MonthlyData
	if in.Current != nil {
		md = in.Current.Clone()
	} else {
		md = &core.MonthlyData{
			Month:        in.Month,
			BankBalances: map[string]core.Money{},
		}
		// A freshly generated month picks up where savings left off.
		if in.Previous != nil && in.Previous.SavingsEnd != nil {
			v := *in.Previous.SavingsEnd
			md.SavingsStart = &v
		}
	}

	for _, t := range in.Templates {
		if !t.IsActive {
			continue
		}
		syncTemplate(md, t)
	}

	for _, s := range in.Sources {
		if s.PayOffMonthly {
			syncPayoff(md, s)
		}
	}

	return md, nil
}

// syncTemplate ensures exactly one generator-owned instance exists for the
// template, creating it fresh or merging regenerated occurrences into it.
func syncTemplate(md *core.MonthlyData, t core.RecurringTemplate) {
	list := md.InstancesFor(t.Kind)

	var inst *core.Instance
	for i := range *list {
		cand := &(*list)[i]
		if cand.TemplateID == t.ID && cand.IsDefault && !cand.IsPayoffBill {
			inst = cand
			break
		}
	}

	fresh := GenerateOccurrences(t, md.Month)

	if inst == nil {
		ni := core.Instance{
			ID:              uuid.NewString(),
			TemplateID:      t.ID,
			Kind:            t.Kind,
			Name:            t.Name,
			Month:           md.Month,
			BillingPeriod:   t.BillingPeriod,
			CategoryID:      t.CategoryID,
			PaymentSourceID: t.PaymentSourceID,
			GoalID:          t.GoalID,
			Occurrences:     fresh,
			IsDefault:       true,
			Metadata:        snapshotMetadata(t.Metadata),
		}
		ni.Normalize()
		*list = append(*list, ni)
		return
	}

	mergeOccurrences(inst, fresh)
	// Schedule and display fields follow the template; the metadata
	// snapshot stays as taken at generation time.
	inst.BillingPeriod = t.BillingPeriod
	inst.Name = t.Name
	inst.CategoryID = t.CategoryID
	inst.PaymentSourceID = t.PaymentSourceID
	inst.GoalID = t.GoalID
}

// mergeOccurrences reconciles an instance's occurrence list with a freshly
// generated one. Prior occurrences win over regenerated ones at the same
// date, which preserves user edits; closed and ad-hoc occurrences survive
// unconditionally, even with dates the schedule no longer produces.
func mergeOccurrences(inst *core.Instance, fresh []core.Occurrence) {
	freshDates := make(map[string]bool, len(fresh))
	for _, f := range fresh {
		freshDates[f.ExpectedDate.Key()] = true
	}

	var merged []core.Occurrence
	covered := make(map[string]bool)
	for _, o := range inst.Occurrences {
		keep := o.IsAdhoc || o.IsClosed || freshDates[o.ExpectedDate.Key()]
		if !keep {
			continue
		}
		merged = append(merged, o)
		if !o.IsAdhoc {
			covered[o.ExpectedDate.Key()] = true
		}
	}
	for _, f := range fresh {
		if !covered[f.ExpectedDate.Key()] {
			merged = append(merged, f)
		}
	}

	inst.Occurrences = merged
	inst.Normalize()
}

// syncPayoff maintains the synthetic "pay off this card" instance for a
// pay-off-monthly source. The expected amount tracks the card's entered
// balance while the occurrence is open; manually tracked sources get the
// instance without an auto-populated amount.
func syncPayoff(md *core.MonthlyData, s core.PaymentSource) {
	balance, haveBalance := md.BankBalances[s.ID]

	var inst *core.Instance
	for i := range md.Bills {
		if md.Bills[i].IsPayoffBill && md.Bills[i].PayoffSourceID == s.ID {
			inst = &md.Bills[i]
			break
		}
	}

	if inst == nil {
		var expected core.Money
		if !s.TrackPaymentsManually && haveBalance {
			expected = balance
		}
		md.Bills = append(md.Bills, core.Instance{
			ID:              uuid.NewString(),
			Kind:            core.KindBill,
			Name:            s.Name + " payoff",
			Month:           md.Month,
			BillingPeriod:   core.PeriodMonthly,
			PaymentSourceID: s.ID,
			IsDefault:       true,
			IsPayoffBill:    true,
			PayoffSourceID:  s.ID,
			Occurrences: []core.Occurrence{{
				ID:             uuid.NewString(),
				Sequence:       1,
				ExpectedDate:   md.Month.Last(),
				ExpectedAmount: expected,
			}},
		})
		return
	}

	if s.TrackPaymentsManually || !haveBalance {
		return
	}
	for i := range inst.Occurrences {
		o := &inst.Occurrences[i]
		if !o.IsClosed && !o.IsAdhoc {
			o.ExpectedAmount = balance
		}
	}
}

func snapshotMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
