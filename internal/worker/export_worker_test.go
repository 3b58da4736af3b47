package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"billfold/internal/amqp"
	"billfold/internal/core"
	"billfold/internal/services"
	memstore "billfold/internal/store/memory"
)

func TestExportWorker_ExportMonth(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	m := core.Month{Year: 2025, Month: time.March}

	md := &core.MonthlyData{
		Month: m,
		Bills: []core.Instance{{
			ID:        "i-rent",
			Kind:      core.KindBill,
			Name:      "Rent",
			Month:     m,
			IsDefault: true,
			Occurrences: []core.Occurrence{{
				ID:             "o-1",
				Sequence:       1,
				ExpectedDate:   core.NewDate(2025, 3, 1),
				ExpectedAmount: core.Money{Cents: 150000},
			}},
		}},
	}
	if err := st.PutMonth(ctx, md); err != nil {
		t.Fatalf("PutMonth() error = %v", err)
	}

	dir := t.TempDir()
	w := NewExportWorker(st, dir)
	if err := w.ExportMonth(ctx, m); err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, "2025-03.json"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var dm services.DetailedMonth
	if err := json.Unmarshal(body, &dm); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if dm.Tallies.RegularBills.Expected.Cents != 150000 {
		t.Errorf("snapshot RegularBills.Expected = %d, want 150000", dm.Tallies.RegularBills.Expected.Cents)
	}

	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Errorf("export dir entries = %d, want only the final snapshot", len(entries))
	}
}

func TestExportWorker_MissingMonthIsSkipped(t *testing.T) {
	dir := t.TempDir()
	w := NewExportWorker(memstore.New(), dir)

	msg := amqp.NewMonthSyncMessage("2025-04")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("export dir entries = %d, want none for a missing month", len(entries))
	}
}

func TestExportWorker_BadMonthInMessage(t *testing.T) {
	w := NewExportWorker(memstore.New(), t.TempDir())
	if err := w.HandleSyncMessage(context.Background(), &amqp.MonthSyncMessage{Month: "bogus"}); err == nil {
		t.Fatal("HandleSyncMessage() error = nil, want parse error")
	}
}
