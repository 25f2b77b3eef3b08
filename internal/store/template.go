package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type TemplateStore struct {
	db *database.DB
}

func NewTemplateStore(db *database.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.Template, error) {
	var t model.Template
	var items string
	var createdBy sql.NullInt64
	var lastUsed sql.NullTime

	err := scanner.Scan(&t.ID, &t.Name, &items, &createdBy, &t.IsSystem, &t.UsageCount, &lastUsed, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		t.CreatedBy = &createdBy.Int64
	}
	if lastUsed.Valid {
		t.LastUsed = &lastUsed.Time
	}
	if err := json.Unmarshal([]byte(items), &t.Items); err != nil {
		return nil, fmt.Errorf("decode template items: %w", err)
	}
	return &t, nil
}

const templateCols = `id, name, items, created_by, is_system, usage_count, last_used, created_at`

func (s *TemplateStore) Create(ctx context.Context, name string, items []model.TemplateItem, createdBy *int64, isSystem bool) (*model.Template, error) {
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode template items: %w", err)
	}

	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO templates (name, items, created_by, is_system) VALUES (?, ?, ?, ?) RETURNING id`,
		name, string(encoded), cBy, isSystem,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *TemplateStore) GetByID(ctx context.Context, id int64) (*model.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// ListVisible returns the templates a user may apply: their own plus
// system templates.
func (s *TemplateStore) ListVisible(ctx context.Context, userID int64) ([]model.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateCols+` FROM templates WHERE is_system = ? OR created_by = ? ORDER BY is_system DESC, name ASC`,
		true, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// RecordUsage bumps the usage counter, stamps last_used and appends the
// audit row in one transaction. Called exactly once per apply.
func (s *TemplateStore) RecordUsage(ctx context.Context, templateID, listID int64, usedBy *int64, itemsAdded int) error {
	var uBy sql.NullInt64
	if usedBy != nil {
		uBy = sql.NullInt64{Int64: *usedBy, Valid: true}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE templates SET usage_count = usage_count + 1, last_used = CURRENT_TIMESTAMP WHERE id = ?`,
		templateID,
	); err != nil {
		return fmt.Errorf("bump usage: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO template_usage (template_id, list_id, used_by, items_added) VALUES (?, ?, ?, ?)`,
		templateID, listID, uBy, itemsAdded,
	); err != nil {
		return fmt.Errorf("insert usage: %w", err)
	}

	return tx.Commit()
}

func (s *TemplateStore) UsageForTemplate(ctx context.Context, templateID int64) ([]model.TemplateUsage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_id, list_id, used_by, items_added, created_at
		 FROM template_usage WHERE template_id = ? ORDER BY created_at ASC, id ASC`,
		templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var usages []model.TemplateUsage
	for rows.Next() {
		var u model.TemplateUsage
		var usedBy sql.NullInt64
		if err := rows.Scan(&u.ID, &u.TemplateID, &u.ListID, &usedBy, &u.ItemsAdded, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		if usedBy.Valid {
			u.UsedBy = &usedBy.Int64
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}
