// Package storage implements the store ports on SQLite. Records are kept
// as JSON documents in key-addressable tables, which keeps the schema in
// lock-step with the domain types and makes PutMonth a single atomic
// replacement.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"billfold/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListActiveTemplates(ctx context.Context) ([]core.RecurringTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM templates WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTemplate
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		var t core.RecurringTemplate
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveTemplate(ctx context.Context, t core.RecurringTemplate) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	active := 0
	if t.IsActive {
		active = 1
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO templates (id, kind, is_active, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			is_active = excluded.is_active,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		t.ID, string(t.Kind), active, string(data))
	if err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListPaymentSources(ctx context.Context) ([]core.PaymentSource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM payment_sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list payment sources: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentSource
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan payment source: %w", err)
		}
		var s core.PaymentSource
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, fmt.Errorf("decode payment source: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SavePaymentSource(ctx context.Context, s core.PaymentSource) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode payment source: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO payment_sources (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		s.ID, string(data))
	if err != nil {
		return fmt.Errorf("save payment source %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		var c core.Category
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode category: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO categories (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		c.ID, string(data))
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

// GetMonth returns (nil, nil) for a month that has not been generated.
func (r *SQLiteRepository) GetMonth(ctx context.Context, month core.Month) (*core.MonthlyData, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM months WHERE month = ?`, month.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get month %s: %w", month, err)
	}
	var md core.MonthlyData
	if err := json.Unmarshal([]byte(data), &md); err != nil {
		return nil, fmt.Errorf("decode month %s: %w", month, err)
	}
	return &md, nil
}

func (r *SQLiteRepository) PutMonth(ctx context.Context, md *core.MonthlyData) error {
	data, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode month %s: %w", md.Month, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO months (month, data) VALUES (?, ?)
		ON CONFLICT(month) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		md.Month.String(), string(data))
	if err != nil {
		return fmt.Errorf("put month %s: %w", md.Month, err)
	}
	slog.DebugContext(ctx, "Month record replaced",
		"month", md.Month.String(),
		"bytes", len(data))
	return nil
}

func (r *SQLiteRepository) DeleteMonth(ctx context.Context, month core.Month) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM months WHERE month = ?`, month.String())
	if err != nil {
		return fmt.Errorf("delete month %s: %w", month, err)
	}
	return nil
}
