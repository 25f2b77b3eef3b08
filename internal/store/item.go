package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type ItemStore struct {
	db *database.DB
}

func NewItemStore(db *database.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var addedBy sql.NullInt64

	err := scanner.Scan(&item.ID, &item.ListID, &item.Name, &item.NameKey, &item.Category, &addedBy, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if addedBy.Valid {
		item.AddedBy = &addedBy.Int64
	}
	return &item, nil
}

const itemCols = `id, list_id, name, name_key, category, added_by, created_at`

// Create inserts a new item and, when note is non-empty, its first
// attributed note in the same transaction. A unique-constraint failure
// on (list_id, category, name_key) is returned unwrapped enough for
// database.IsUniqueViolation; the caller merges instead.
func (s *ItemStore) Create(ctx context.Context, listID int64, name, nameKey, category string, addedBy *int64, note string) (*model.ShoppingItem, error) {
	var aBy sql.NullInt64
	if addedBy != nil {
		aBy = sql.NullInt64{Int64: *addedBy, Valid: true}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO shopping_items (list_id, name, name_key, category, added_by) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		listID, name, nameKey, category, aBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	if note != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_notes (item_id, user_id, note) VALUES (?, ?, ?)`,
			id, aBy, note,
		); err != nil {
			return nil, fmt.Errorf("insert note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByKey finds the live item matching the merge identity triple.
func (s *ItemStore) GetByKey(ctx context.Context, listID int64, category, nameKey string) (*model.ShoppingItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM shopping_items WHERE list_id = ? AND category = ? AND name_key = ?`,
		listID, category, nameKey,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by key: %w", err)
	}
	return item, nil
}

func (s *ItemStore) AppendNote(ctx context.Context, itemID, userID int64, note string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_notes (item_id, user_id, note) VALUES (?, ?, ?)`,
		itemID, userID, note,
	)
	if err != nil {
		return fmt.Errorf("append note: %w", err)
	}
	return nil
}

// HasNote reports whether the user already has a note on the item.
func (s *ItemStore) HasNote(ctx context.Context, itemID, userID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_notes WHERE item_id = ? AND user_id = ?`,
		itemID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has note: %w", err)
	}
	return count > 0, nil
}

func (s *ItemStore) NotesForItem(ctx context.Context, itemID int64) ([]model.ItemNote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, user_id, note, created_at FROM item_notes WHERE item_id = ? ORDER BY created_at ASC, id ASC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.ItemNote
	for rows.Next() {
		var n model.ItemNote
		var userID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.ItemID, &userID, &n.Note, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if userID.Valid {
			n.UserID = &userID.Int64
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListViews returns all items of a list with contributor display names
// and attributed notes, ordered by category then name for presentation.
func (s *ItemStore) ListViews(ctx context.Context, listID int64) ([]model.ItemView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT si.id, si.list_id, si.name, si.name_key, si.category, si.added_by, si.created_at,
		        COALESCE(u.first_name, ''), COALESCE(u.username, '')
		 FROM shopping_items si
		 LEFT JOIN users u ON si.added_by = u.id
		 WHERE si.list_id = ?
		 ORDER BY si.category ASC, si.name_key ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var views []model.ItemView
	index := make(map[int64]int)
	for rows.Next() {
		var v model.ItemView
		var addedBy sql.NullInt64
		var firstName, username string
		if err := rows.Scan(&v.ID, &v.ListID, &v.Name, &v.NameKey, &v.Category, &addedBy, &v.CreatedAt, &firstName, &username); err != nil {
			return nil, fmt.Errorf("scan item view: %w", err)
		}
		if addedBy.Valid {
			v.AddedBy = &addedBy.Int64
		}
		v.AddedByName = displayName(firstName, username)
		index[v.ID] = len(views)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	noteRows, err := s.db.QueryContext(ctx,
		`SELECT n.item_id, n.note, COALESCE(u.first_name, ''), COALESCE(u.username, '')
		 FROM item_notes n
		 JOIN shopping_items si ON n.item_id = si.id
		 LEFT JOIN users u ON n.user_id = u.id
		 WHERE si.list_id = ?
		 ORDER BY n.created_at ASC, n.id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer noteRows.Close()

	for noteRows.Next() {
		var itemID int64
		var note, firstName, username string
		if err := noteRows.Scan(&itemID, &note, &firstName, &username); err != nil {
			return nil, fmt.Errorf("scan note view: %w", err)
		}
		if i, ok := index[itemID]; ok {
			views[i].Notes = append(views[i].Notes, model.NoteView{
				Note:     note,
				UserName: displayName(firstName, username),
			})
		}
	}
	return views, noteRows.Err()
}

// ListByUser returns every item the user added, across all lists.
func (s *ItemStore) ListByUser(ctx context.Context, userID int64) ([]model.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM shopping_items WHERE added_by = ? ORDER BY list_id ASC, category ASC, name_key ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by user: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func displayName(firstName, username string) string {
	if firstName != "" {
		return firstName
	}
	if username != "" {
		return username
	}
	return "Unknown"
}

// Delete removes an item and returns its name for the confirmation
// message, or "" when no such item exists. Notes and status rows go
// with it via cascade.
func (s *ItemStore) Delete(ctx context.Context, id int64) (string, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("delete item: %w", err)
	}
	return item.Name, nil
}

// ResetList deletes every item on the list; notes and status tracking
// cascade. The list row itself is untouched.
func (s *ItemStore) ResetList(ctx context.Context, listID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("reset list: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *ItemStore) CountByList(ctx context.Context, listID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shopping_items WHERE list_id = ?`, listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// --- Status tracking methods ---

// UpsertStatus records a user's own view of an item's fulfillment.
// One row per (item, user).
func (s *ItemStore) UpsertStatus(ctx context.Context, itemID, userID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_status (item_id, user_id, status) VALUES (?, ?, ?)
		 ON CONFLICT (item_id, user_id) DO UPDATE SET status = excluded.status, updated_at = CURRENT_TIMESTAMP`,
		itemID, userID, status,
	)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

func (s *ItemStore) StatusesForItem(ctx context.Context, itemID int64) ([]model.ItemStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, user_id, status, updated_at FROM item_status WHERE item_id = ? ORDER BY user_id ASC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []model.ItemStatus
	for rows.Next() {
		var st model.ItemStatus
		if err := rows.Scan(&st.ItemID, &st.UserID, &st.Status, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}
