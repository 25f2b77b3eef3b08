package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type SuggestionStore struct {
	db *database.DB
}

func NewSuggestionStore(db *database.DB) *SuggestionStore {
	return &SuggestionStore{db: db}
}

func scanSuggestion(scanner interface{ Scan(...any) error }) (*model.Suggestion, error) {
	var sg model.Suggestion
	var listID, approvedBy sql.NullInt64
	var resolvedAt sql.NullTime

	err := scanner.Scan(
		&sg.ID, &sg.Kind, &sg.Status, &sg.SuggestedBy, &listID,
		&sg.ItemName, &sg.ItemCategory, &sg.CategoryKey, &sg.CategoryEmoji,
		&sg.NameEN, &sg.NameHE, &approvedBy, &resolvedAt, &sg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if listID.Valid {
		sg.ListID = &listID.Int64
	}
	if approvedBy.Valid {
		sg.ApprovedBy = &approvedBy.Int64
	}
	if resolvedAt.Valid {
		sg.ResolvedAt = &resolvedAt.Time
	}
	return &sg, nil
}

const suggestionCols = `id, kind, status, suggested_by, list_id, item_name, item_category, category_key, category_emoji, name_en, name_he, approved_by, resolved_at, created_at`

func (s *SuggestionStore) Create(ctx context.Context, sg *model.Suggestion) (*model.Suggestion, error) {
	var listID sql.NullInt64
	if sg.ListID != nil {
		listID = sql.NullInt64{Int64: *sg.ListID, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO suggestions (kind, suggested_by, list_id, item_name, item_category, category_key, category_emoji, name_en, name_he)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		sg.Kind, sg.SuggestedBy, listID, sg.ItemName, sg.ItemCategory,
		sg.CategoryKey, sg.CategoryEmoji, sg.NameEN, sg.NameHE,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert suggestion: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *SuggestionStore) GetByID(ctx context.Context, id int64) (*model.Suggestion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+suggestionCols+` FROM suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return sg, nil
}

func (s *SuggestionStore) ListPending(ctx context.Context) ([]model.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+suggestionCols+` FROM suggestions WHERE status = ? ORDER BY created_at ASC`,
		model.SuggestionPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []model.Suggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, *sg)
	}
	return suggestions, rows.Err()
}

// MarkResolved transitions a pending suggestion to the given terminal
// status and stamps the resolving admin. Returns false when the
// suggestion was not pending, which is the double-click guard: only one
// caller wins the conditional update.
func (s *SuggestionStore) MarkResolved(ctx context.Context, id int64, status string, adminID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE suggestions SET status = ?, approved_by = ?, resolved_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		status, adminID, id, model.SuggestionPending,
	)
	if err != nil {
		return false, fmt.Errorf("mark resolved: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// ApproveCategory approves a category suggestion and materializes the
// custom category in one transaction. Returns (nil, false, nil) when the
// suggestion was no longer pending. A duplicate category key rolls the
// whole transaction back, so the suggestion stays pending; the caller
// detects that with database.IsUniqueViolation.
// ApproveItem approves an item suggestion and lands the item in the
// same transaction. The conditional status stamp runs first, so a
// resolver that lost the race writes nothing: a suggestion that ends up
// rejected can never leave an item behind. The insert yields to an
// existing live item; merging records the proposer as a contributor.
func (s *SuggestionStore) ApproveItem(ctx context.Context, sg *model.Suggestion, adminID, listID int64, name, nameKey, category string) (bool, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE suggestions SET status = ?, approved_by = ?, resolved_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.SuggestionApproved, adminID, sg.ID, model.SuggestionPending,
	)
	if err != nil {
		return false, false, fmt.Errorf("approve suggestion: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return false, false, nil
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO shopping_items (list_id, name, name_key, category, added_by) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (list_id, category, name_key) DO NOTHING`,
		listID, name, nameKey, category, sg.SuggestedBy,
	)
	if err != nil {
		return false, false, fmt.Errorf("insert item: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("rows affected: %w", err)
	}
	created := inserted > 0

	if !created {
		var itemID int64
		var addedBy sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT id, added_by FROM shopping_items WHERE list_id = ? AND category = ? AND name_key = ?`,
			listID, category, nameKey,
		).Scan(&itemID, &addedBy)
		if err != nil {
			return false, false, fmt.Errorf("get merged item: %w", err)
		}
		if !addedBy.Valid || addedBy.Int64 != sg.SuggestedBy {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO item_notes (item_id, user_id, note)
				 SELECT ?, ?, '' WHERE NOT EXISTS (SELECT 1 FROM item_notes WHERE item_id = ? AND user_id = ?)`,
				itemID, sg.SuggestedBy, itemID, sg.SuggestedBy,
			); err != nil {
				return false, false, fmt.Errorf("record contributor: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, false, fmt.Errorf("commit: %w", err)
	}
	return created, true, nil
}

func (s *SuggestionStore) ApproveCategory(ctx context.Context, sg *model.Suggestion, adminID int64) (*model.CustomCategory, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE suggestions SET status = ?, approved_by = ?, resolved_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.SuggestionApproved, adminID, sg.ID, model.SuggestionPending,
	)
	if err != nil {
		return nil, false, fmt.Errorf("approve suggestion: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, false, nil
	}

	var catID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO custom_categories (key, emoji, name_en, name_he, created_by) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		sg.CategoryKey, sg.CategoryEmoji, sg.NameEN, sg.NameHE, sg.SuggestedBy,
	).Scan(&catID)
	if err != nil {
		return nil, false, fmt.Errorf("insert category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+categoryCols+` FROM custom_categories WHERE id = ?`, catID)
	cat, err := scanCategory(row)
	if err != nil {
		return nil, false, fmt.Errorf("get approved category: %w", err)
	}
	return cat, true, nil
}
