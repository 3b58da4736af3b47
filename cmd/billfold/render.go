package main

import (
	"fmt"
	"io"

	"billfold/internal/services"
)

// render writes the detailed month view as plain text.
func render(w io.Writer, dm *services.DetailedMonth) {
	fmt.Fprintf(w, "Month %s", dm.Month)
	if dm.IsReadOnly {
		fmt.Fprint(w, " (locked)")
	}
	fmt.Fprintln(w)

	renderSections(w, "Bills", dm.BillSections)
	renderSections(w, "Income", dm.IncomeSections)

	fmt.Fprintln(w, "\nTotals")
	renderTally(w, "regular bills", dm.Tallies.RegularBills)
	renderTally(w, "adhoc bills", dm.Tallies.AdhocBills)
	renderTally(w, "payoffs", dm.Tallies.Payoffs)
	renderTally(w, "total expenses", dm.Tallies.TotalExpenses)
	renderTally(w, "regular income", dm.Tallies.RegularIncome)
	renderTally(w, "adhoc income", dm.Tallies.AdhocIncome)
	renderTally(w, "total income", dm.Tallies.TotalIncome)
	fmt.Fprintf(w, "  %-16s %10s\n", "variable", dm.VariableTotal)

	if len(dm.Payoffs) > 0 {
		fmt.Fprintln(w, "\nPayoffs")
		for _, p := range dm.Payoffs {
			fmt.Fprintf(w, "  %-24s balance %10s  paid %10s  remaining %10s\n",
				p.Name, p.Balance, p.Paid, p.Remaining)
		}
	}

	fmt.Fprintln(w, "\nLeftover")
	fmt.Fprintf(w, "  %-18s %10s\n", "bank balances", dm.Leftover.BankBalances)
	fmt.Fprintf(w, "  %-18s %10s\n", "remaining income", dm.Leftover.RemainingIncome)
	fmt.Fprintf(w, "  %-18s %10s\n", "remaining expenses", dm.Leftover.RemainingExpenses)
	fmt.Fprintf(w, "  %-18s %10s\n", "leftover", dm.Leftover.Leftover)
	if !dm.Leftover.IsValid {
		fmt.Fprintf(w, "  WARNING: %s\n", dm.Leftover.ErrorMessage)
	}
}

func renderSections(w io.Writer, title string, sections []services.CategorySection) {
	if len(sections) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, sec := range sections {
		fmt.Fprintf(w, "  %s\n", sec.Name)
		for _, item := range sec.Items {
			status := "open"
			if item.IsClosed {
				status = "paid"
			}
			fmt.Fprintf(w, "    %-28s %10s / %10s  %s", item.Name, item.Actual, item.Expected, status)
			if item.Overdue {
				fmt.Fprintf(w, "  overdue %dd", item.DaysOverdue)
			} else if !item.NextDate.IsEmpty() {
				fmt.Fprintf(w, "  next %s", item.NextDate)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "    %-28s %10s / %10s\n", "subtotal", sec.Subtotal.Actual, sec.Subtotal.Expected)
	}
}

func renderTally(w io.Writer, label string, t services.TallyAmounts) {
	fmt.Fprintf(w, "  %-16s %10s expected  %10s actual  %10s remaining\n",
		label, t.Expected, t.Actual, t.Remaining)
}
