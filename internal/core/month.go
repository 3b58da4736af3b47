package core

// VariableExpense is a free-flowing expense recorded directly against a
// month, outside any recurring template.
type VariableExpense struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Amount     Money  `json:"amount"`
	Date       Date   `json:"date"`
	CategoryID string `json:"category_id,omitempty"`
}

// MonthlyData is the full persisted record for one month: every bill and
// income instance, variable expenses, entered bank balances and the
// read-only lock. The engine always works on a complete MonthlyData value
// and returns a complete replacement.
type MonthlyData struct {
	Month            Month             `json:"month"`
	Bills            []Instance        `json:"bills"`
	Incomes          []Instance        `json:"incomes"`
	VariableExpenses []VariableExpense `json:"variable_expenses,omitempty"`
	BankBalances     map[string]Money  `json:"bank_balances"`
	SavingsStart     *Money            `json:"savings_start,omitempty"`
	SavingsEnd       *Money            `json:"savings_end,omitempty"`
	IsReadOnly       bool              `json:"is_read_only,omitempty"`
}

// Instance finds an instance by id across bills and incomes, or nil.
func (m *MonthlyData) Instance(id string) *Instance {
	for i := range m.Bills {
		if m.Bills[i].ID == id {
			return &m.Bills[i]
		}
	}
	for i := range m.Incomes {
		if m.Incomes[i].ID == id {
			return &m.Incomes[i]
		}
	}
	return nil
}

// InstancesFor returns the instance list for the given kind. The returned
// pointer aliases the underlying slice so callers can append.
func (m *MonthlyData) InstancesFor(kind Kind) *[]Instance {
	if kind == KindIncome {
		return &m.Incomes
	}
	return &m.Bills
}

// Clone deep-copies the month record.
func (m *MonthlyData) Clone() *MonthlyData {
	out := *m
	out.Bills = cloneInstances(m.Bills)
	out.Incomes = cloneInstances(m.Incomes)
	out.VariableExpenses = append([]VariableExpense(nil), m.VariableExpenses...)
	if m.BankBalances != nil {
		out.BankBalances = make(map[string]Money, len(m.BankBalances))
		for k, v := range m.BankBalances {
			out.BankBalances[k] = v
		}
	}
	out.SavingsStart = cloneMoney(m.SavingsStart)
	out.SavingsEnd = cloneMoney(m.SavingsEnd)
	return &out
}

func cloneInstances(in []Instance) []Instance {
	if in == nil {
		return nil
	}
	out := make([]Instance, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneMoney(m *Money) *Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
