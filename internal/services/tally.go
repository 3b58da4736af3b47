package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"billfold/internal/core"
)

// TallyAmounts is one expected/actual/remaining triple. Remaining is kept
// signed in every bucket: a negative remainder is an overpayment signal and
// clamping, if wanted, is a presentation concern.
type TallyAmounts struct {
	Expected  core.Money `json:"expected"`
	Actual    core.Money `json:"actual"`
	Remaining core.Money `json:"remaining"`
}

func (t *TallyAmounts) add(expected, actual core.Money) {
	t.Expected = t.Expected.Add(expected)
	t.Actual = t.Actual.Add(actual)
	t.Remaining = t.Expected.Sub(t.Actual)
}

func (t TallyAmounts) plus(other TallyAmounts) TallyAmounts {
	return TallyAmounts{
		Expected:  t.Expected.Add(other.Expected),
		Actual:    t.Actual.Add(other.Actual),
		Remaining: t.Remaining.Add(other.Remaining),
	}
}

// ItemSummary is one instance as it appears in a category section.
type ItemSummary struct {
	InstanceID  string     `json:"instance_id"`
	Name        string     `json:"name"`
	Expected    core.Money `json:"expected"`
	Actual      core.Money `json:"actual"`
	IsClosed    bool       `json:"is_closed"`
	IsAdhoc     bool       `json:"is_adhoc,omitempty"`
	NextDate    core.Date  `json:"next_date,omitempty"`
	Overdue     bool       `json:"overdue,omitempty"`
	DaysOverdue int        `json:"days_overdue,omitempty"`
}

// CategorySection groups instances of one category, with a subtotal.
type CategorySection struct {
	CategoryID string        `json:"category_id"`
	Name       string        `json:"name"`
	SortOrder  int           `json:"sort_order"`
	Items      []ItemSummary `json:"items"`
	Subtotal   TallyAmounts  `json:"subtotal"`
}

// MonthTallies are the aggregate buckets for one month.
type MonthTallies struct {
	RegularBills  TallyAmounts `json:"regular_bills"`
	AdhocBills    TallyAmounts `json:"adhoc_bills"`
	Payoffs       TallyAmounts `json:"payoffs"`
	TotalExpenses TallyAmounts `json:"total_expenses"`
	RegularIncome TallyAmounts `json:"regular_income"`
	AdhocIncome   TallyAmounts `json:"adhoc_income"`
	TotalIncome   TallyAmounts `json:"total_income"`
}

// LeftoverBreakdown is the bottom-line figure with its inputs. When any
// non-excluded payment source has no entered balance the whole figure is
// flagged invalid rather than silently passing off a wrong number; the
// tally around it stays usable.
type LeftoverBreakdown struct {
	BankBalances      core.Money `json:"bank_balances"`
	RemainingIncome   core.Money `json:"remaining_income"`
	RemainingExpenses core.Money `json:"remaining_expenses"`
	Leftover          core.Money `json:"leftover"`
	IsValid           bool       `json:"is_valid"`
	MissingBalances   []string   `json:"missing_balances,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
}

// PayoffSummary reports one pay-off-monthly source's month.
type PayoffSummary struct {
	SourceID  string     `json:"source_id"`
	Name      string     `json:"name"`
	Balance   core.Money `json:"balance"`
	Paid      core.Money `json:"paid"`
	Remaining core.Money `json:"remaining"`
}

// DetailedMonth is the aggregated month view handed to callers.
type DetailedMonth struct {
	Month          core.Month        `json:"month"`
	IsReadOnly     bool              `json:"is_read_only,omitempty"`
	BillSections   []CategorySection `json:"bill_sections"`
	IncomeSections []CategorySection `json:"income_sections"`
	Tallies        MonthTallies      `json:"tallies"`
	VariableTotal  core.Money        `json:"variable_total"`
	Leftover       LeftoverBreakdown `json:"leftover"`
	Payoffs        []PayoffSummary   `json:"payoffs,omitempty"`
}

// BuildDetailedMonth aggregates a month record into the detailed view.
// It is a pure computation over the loaded state; now anchors overdue
// detection.
func BuildDetailedMonth(md *core.MonthlyData, sources []core.PaymentSource, categories []core.Category, now time.Time) *DetailedMonth {
	out := &DetailedMonth{
		Month:      md.Month,
		IsReadOnly: md.IsReadOnly,
	}

	out.BillSections = buildSections(md.Bills, categories, now, true)
	out.IncomeSections = buildSections(md.Incomes, categories, now, false)
	out.Tallies = buildTallies(md)

	for _, v := range md.VariableExpenses {
		out.VariableTotal = out.VariableTotal.Add(v.Amount)
	}

	out.Leftover = buildLeftover(md, sources)
	out.Payoffs = buildPayoffSummaries(md, sources)
	return out
}

// buildSections groups instances by category, ordered by the category sort
// order. Instances with an unknown or empty category collect in a trailing
// uncategorized section; payoff instances are reported separately and stay
// out of the bill sections.
func buildSections(instances []core.Instance, categories []core.Category, now time.Time, skipPayoffs bool) []CategorySection {
	byID := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	sections := make(map[string]*CategorySection)
	var order []string
	for i := range instances {
		inst := &instances[i]
		if skipPayoffs && inst.IsPayoffBill {
			continue
		}
		key := inst.CategoryID
		sec, ok := sections[key]
		if !ok {
			sec = &CategorySection{CategoryID: key}
			if cat, known := byID[key]; known {
				sec.Name = cat.Name
				sec.SortOrder = cat.SortOrder
			} else {
				sec.Name = "Uncategorized"
				sec.SortOrder = int(^uint(0) >> 1) // trailing
			}
			sections[key] = sec
			order = append(order, key)
		}
		expected := inst.ExpectedAmount()
		actual := inst.ActualAmount()
		item := ItemSummary{
			InstanceID: inst.ID,
			Name:       inst.Name,
			Expected:   expected,
			Actual:     actual,
			IsClosed:   inst.IsClosed(),
			IsAdhoc:    inst.IsAdhoc,
			NextDate:   inst.NextOpenDate(),
		}
		item.Overdue, item.DaysOverdue = overdue(inst, now)
		sec.Items = append(sec.Items, item)
		sec.Subtotal.add(expected, actual)
	}

	out := make([]CategorySection, 0, len(order))
	for _, key := range order {
		out = append(out, *sections[key])
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].SortOrder != out[b].SortOrder {
			return out[a].SortOrder < out[b].SortOrder
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// overdue reports whether the instance has an open occurrence dated before
// today, and how many whole days the oldest one is late.
func overdue(inst *core.Instance, now time.Time) (bool, int) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := 0
	for _, o := range inst.Occurrences {
		if o.IsClosed || o.ExpectedDate.IsEmpty() {
			continue
		}
		if o.ExpectedDate.Before(today) {
			if d := int(today.Sub(o.ExpectedDate.Time) / (24 * time.Hour)); d > days {
				days = d
			}
		}
	}
	return days > 0, days
}

func buildTallies(md *core.MonthlyData) MonthTallies {
	var t MonthTallies
	for i := range md.Bills {
		inst := &md.Bills[i]
		expected := inst.ExpectedAmount()
		actual := inst.ActualAmount()
		switch {
		case inst.IsPayoffBill:
			t.Payoffs.add(expected, actual)
		case inst.IsAdhoc:
			// Ad-hoc bills carry no expected baseline; only money
			// actually spent counts here. The open remainder still
			// reaches the leftover through the instance itself.
			t.AdhocBills.Actual = t.AdhocBills.Actual.Add(actual)
		default:
			t.RegularBills.add(expected, actual)
		}
	}
	for i := range md.Incomes {
		inst := &md.Incomes[i]
		expected := inst.ExpectedAmount()
		actual := inst.ActualAmount()
		if inst.IsAdhoc {
			t.AdhocIncome.add(expected, actual)
		} else {
			t.RegularIncome.add(expected, actual)
		}
	}
	t.TotalExpenses = t.RegularBills.plus(t.AdhocBills).plus(t.Payoffs)
	t.TotalIncome = t.RegularIncome.plus(t.AdhocIncome)
	return t
}

// buildLeftover computes bank balances + remaining income - remaining
// expenses. A source that pays off monthly contributes through its payoff
// instance, not its raw balance, to avoid counting the same debt twice.
// Missing balances substitute as 0 and invalidate the result.
func buildLeftover(md *core.MonthlyData, sources []core.PaymentSource) LeftoverBreakdown {
	var lb LeftoverBreakdown

	for _, s := range sources {
		if s.LeftoverExcluded() {
			continue
		}
		balance, ok := md.BankBalances[s.ID]
		if !ok {
			lb.MissingBalances = append(lb.MissingBalances, s.ID)
			continue
		}
		if s.PayOffMonthly {
			continue
		}
		lb.BankBalances = lb.BankBalances.Add(s.SignedBalance(balance))
	}

	for i := range md.Incomes {
		lb.RemainingIncome = lb.RemainingIncome.Add(md.Incomes[i].RemainingAmount())
	}
	for i := range md.Bills {
		lb.RemainingExpenses = lb.RemainingExpenses.Add(md.Bills[i].RemainingAmount())
	}

	lb.Leftover = lb.BankBalances.Add(lb.RemainingIncome).Sub(lb.RemainingExpenses)
	lb.IsValid = len(lb.MissingBalances) == 0
	if !lb.IsValid {
		lb.ErrorMessage = fmt.Sprintf(
			"no bank balance entered for %d payment source(s) (%s); missing balances were treated as 0, the leftover figure is not trustworthy",
			len(lb.MissingBalances), strings.Join(lb.MissingBalances, ", "))
	}
	return lb
}

func buildPayoffSummaries(md *core.MonthlyData, sources []core.PaymentSource) []PayoffSummary {
	var out []PayoffSummary
	for _, s := range sources {
		if !s.PayOffMonthly {
			continue
		}
		sum := PayoffSummary{SourceID: s.ID, Name: s.Name}
		if balance, ok := md.BankBalances[s.ID]; ok {
			sum.Balance = balance
		}
		for i := range md.Bills {
			inst := &md.Bills[i]
			if inst.IsPayoffBill && inst.PayoffSourceID == s.ID {
				sum.Paid = inst.ActualAmount()
				sum.Remaining = inst.RemainingAmount()
				break
			}
		}
		out = append(out, sum)
	}
	return out
}
