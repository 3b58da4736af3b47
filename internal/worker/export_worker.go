// Package worker exports month snapshots in response to change
// notifications. Every time a month is generated or mutated, the
// consumer rebuilds the detailed view and writes it as a JSON file, so
// external tooling can read the latest state without touching the
// database.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"billfold/internal/amqp"
	"billfold/internal/core"
	"billfold/internal/services"
	"billfold/internal/store"
)

// ExportWorker materializes detailed month views as JSON snapshot files.
type ExportWorker struct {
	store store.Store
	dir   string
}

func NewExportWorker(st store.Store, dir string) *ExportWorker {
	return &ExportWorker{store: st, dir: dir}
}

// HandleSyncMessage processes a single month sync message from AMQP.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.MonthSyncMessage) error {
	month, err := core.ParseMonth(msg.Month)
	if err != nil {
		return fmt.Errorf("parse month %q: %w", msg.Month, err)
	}
	return w.ExportMonth(ctx, month)
}

// ExportMonth writes the detailed view of one month to the export
// directory. The write goes through a temp file and a rename so readers
// never observe a partial snapshot.
func (w *ExportWorker) ExportMonth(ctx context.Context, month core.Month) error {
	md, err := w.store.GetMonth(ctx, month)
	if err != nil {
		return fmt.Errorf("get month %s: %w", month, err)
	}
	if md == nil {
		// The month may have been deleted after the message was queued.
		slog.WarnContext(ctx, "Month not found, skipping export", "month", month.String())
		return nil
	}
	sources, err := w.store.ListPaymentSources(ctx)
	if err != nil {
		return fmt.Errorf("list payment sources: %w", err)
	}
	categories, err := w.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	dm := services.BuildDetailedMonth(md, sources, categories, time.Now())
	body, err := json.MarshalIndent(dm, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal month view: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	final := filepath.Join(w.dir, month.String()+".json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Exported month snapshot",
		"month", month.String(),
		"path", final,
		"bytes", len(body))
	return nil
}
