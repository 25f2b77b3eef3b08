package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type CategoryStore struct {
	db *database.DB
}

func NewCategoryStore(db *database.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.CustomCategory, error) {
	var c model.CustomCategory
	var createdBy sql.NullInt64
	err := scanner.Scan(&c.ID, &c.Key, &c.Emoji, &c.NameEN, &c.NameHE, &createdBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		c.CreatedBy = &createdBy.Int64
	}
	return &c, nil
}

const categoryCols = `id, key, emoji, name_en, name_he, created_by, created_at`

func (s *CategoryStore) List(ctx context.Context) ([]model.CustomCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryCols+` FROM custom_categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.CustomCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) GetByKey(ctx context.Context, key string) (*model.CustomCategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryCols+` FROM custom_categories WHERE key = ?`, key)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}
