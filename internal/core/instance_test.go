package core

import "testing"

func occurrence(id string, date Date, cents int64, closed bool) Occurrence {
	return Occurrence{
		ID:             id,
		ExpectedDate:   date,
		ExpectedAmount: Money{Cents: cents},
		IsClosed:       closed,
	}
}

func TestInstance_DerivedAmounts(t *testing.T) {
	inst := Instance{
		Occurrences: []Occurrence{
			occurrence("a", NewDate(2025, 3, 1), 1000, true),
			occurrence("b", NewDate(2025, 3, 15), 500, false),
			occurrence("c", NewDate(2025, 3, 29), 250, true),
		},
	}

	if got := inst.ExpectedAmount(); got.Cents != 1750 {
		t.Errorf("ExpectedAmount() = %d, want 1750", got.Cents)
	}
	if got := inst.ActualAmount(); got.Cents != 1250 {
		t.Errorf("ActualAmount() = %d, want 1250", got.Cents)
	}
	if got := inst.RemainingAmount(); got.Cents != 500 {
		t.Errorf("RemainingAmount() = %d, want 500", got.Cents)
	}
}

func TestInstance_IsClosed(t *testing.T) {
	tests := []struct {
		name        string
		occurrences []Occurrence
		want        bool
	}{
		{"no occurrences", nil, false},
		{"all closed", []Occurrence{
			occurrence("a", NewDate(2025, 3, 1), 100, true),
			occurrence("b", NewDate(2025, 3, 15), 100, true),
		}, true},
		{"one open", []Occurrence{
			occurrence("a", NewDate(2025, 3, 1), 100, true),
			occurrence("b", NewDate(2025, 3, 15), 100, false),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Instance{Occurrences: tt.occurrences}
			if got := inst.IsClosed(); got != tt.want {
				t.Errorf("IsClosed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstance_ClosedDate(t *testing.T) {
	inst := Instance{
		Occurrences: []Occurrence{
			{ID: "a", ExpectedDate: NewDate(2025, 3, 1), IsClosed: true, ClosedDate: NewDate(2025, 3, 2)},
			{ID: "b", ExpectedDate: NewDate(2025, 3, 15), IsClosed: true, ClosedDate: NewDate(2025, 3, 20)},
		},
	}
	if got := inst.ClosedDate(); !got.Equal(NewDate(2025, 3, 20).Time) {
		t.Errorf("ClosedDate() = %s, want 2025-03-20", got)
	}

	inst.Occurrences[1].IsClosed = false
	if got := inst.ClosedDate(); !got.IsEmpty() {
		t.Errorf("ClosedDate() = %s, want empty for a partially open instance", got)
	}
}

func TestInstance_NextOpenDate(t *testing.T) {
	inst := Instance{
		Occurrences: []Occurrence{
			occurrence("a", NewDate(2025, 3, 1), 100, true),
			occurrence("b", NewDate(2025, 3, 20), 100, false),
			occurrence("c", NewDate(2025, 3, 10), 100, false),
		},
	}
	if got := inst.NextOpenDate(); !got.Equal(NewDate(2025, 3, 10).Time) {
		t.Errorf("NextOpenDate() = %s, want 2025-03-10", got)
	}

	for i := range inst.Occurrences {
		inst.Occurrences[i].IsClosed = true
	}
	if got := inst.NextOpenDate(); !got.IsEmpty() {
		t.Errorf("NextOpenDate() = %s, want empty when fully closed", got)
	}
}

func TestInstance_Normalize(t *testing.T) {
	inst := Instance{
		Occurrences: []Occurrence{
			occurrence("late", NewDate(2025, 3, 20), 100, false),
			occurrence("early", NewDate(2025, 3, 5), 100, false),
			occurrence("mid", NewDate(2025, 3, 12), 100, false),
		},
	}
	inst.Normalize()

	wantOrder := []string{"early", "mid", "late"}
	for i, id := range wantOrder {
		if inst.Occurrences[i].ID != id {
			t.Errorf("occurrence[%d].ID = %s, want %s", i, inst.Occurrences[i].ID, id)
		}
		if inst.Occurrences[i].Sequence != i+1 {
			t.Errorf("occurrence[%d].Sequence = %d, want %d", i, inst.Occurrences[i].Sequence, i+1)
		}
	}
}

func TestInstance_Clone(t *testing.T) {
	orig := Instance{
		ID:       "i1",
		Metadata: map[string]string{"k": "v"},
		Occurrences: []Occurrence{
			occurrence("a", NewDate(2025, 3, 1), 100, false),
		},
	}
	clone := orig.Clone()

	clone.Occurrences[0].IsClosed = true
	clone.Metadata["k"] = "changed"

	if orig.Occurrences[0].IsClosed {
		t.Error("Clone() shares the occurrence slice")
	}
	if orig.Metadata["k"] != "v" {
		t.Error("Clone() shares the metadata map")
	}
}

func TestMonthlyData_InstanceLookup(t *testing.T) {
	md := MonthlyData{
		Bills:   []Instance{{ID: "b1"}},
		Incomes: []Instance{{ID: "i1"}},
	}

	if got := md.Instance("b1"); got == nil {
		t.Error("Instance(b1) = nil, want bill")
	}
	if got := md.Instance("i1"); got == nil {
		t.Error("Instance(i1) = nil, want income")
	}
	if got := md.Instance("missing"); got != nil {
		t.Errorf("Instance(missing) = %v, want nil", got)
	}
}

func TestMonthlyData_Clone(t *testing.T) {
	savings := Money{Cents: 5000}
	md := &MonthlyData{
		Month:        Month{Year: 2025, Month: 3},
		Bills:        []Instance{{ID: "b1", Occurrences: []Occurrence{occurrence("o1", NewDate(2025, 3, 1), 100, false)}}},
		BankBalances: map[string]Money{"src": {Cents: 100}},
		SavingsStart: &savings,
	}
	clone := md.Clone()

	clone.Bills[0].Occurrences[0].IsClosed = true
	clone.BankBalances["src"] = Money{Cents: 999}
	clone.SavingsStart.Cents = 1

	if md.Bills[0].Occurrences[0].IsClosed {
		t.Error("Clone() shares bill occurrences")
	}
	if md.BankBalances["src"].Cents != 100 {
		t.Error("Clone() shares the balance map")
	}
	if md.SavingsStart.Cents != 5000 {
		t.Error("Clone() shares the savings pointer")
	}
}
