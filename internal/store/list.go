package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type ListStore struct {
	db *database.DB
}

func NewListStore(db *database.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	var frozenAt sql.NullTime
	var createdBy sql.NullInt64

	err := scanner.Scan(&l.ID, &l.Name, &l.ListType, &l.IsActive, &l.IsFrozen, &frozenAt, &createdBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if frozenAt.Valid {
		l.FrozenAt = &frozenAt.Time
	}
	if createdBy.Valid {
		l.CreatedBy = &createdBy.Int64
	}
	return &l, nil
}

const listCols = `id, name, list_type, is_active, is_frozen, frozen_at, created_by, created_at`

func (s *ListStore) Create(ctx context.Context, name, listType string, createdBy *int64) (*model.List, error) {
	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO lists (name, list_type, created_by) VALUES (?, ?, ?) RETURNING id`,
		name, listType, cBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ListStore) GetByID(ctx context.Context, id int64) (*model.List, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ListStore) ListActive(ctx context.Context) ([]model.List, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listCols+` FROM lists WHERE is_active = ? ORDER BY created_at ASC`, true)
	if err != nil {
		return nil, fmt.Errorf("list active lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// SetFrozen freezes or unfreezes a list, stamping frozen_at on freeze
// and clearing it on unfreeze. Idempotent.
func (s *ListStore) SetFrozen(ctx context.Context, id int64, frozen bool) (*model.List, error) {
	var err error
	if frozen {
		_, err = s.db.ExecContext(ctx,
			`UPDATE lists SET is_frozen = ?, frozen_at = CURRENT_TIMESTAMP WHERE id = ?`,
			true, id,
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE lists SET is_frozen = ?, frozen_at = NULL WHERE id = ?`,
			false, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("set frozen: %w", err)
	}
	return s.GetByID(ctx, id)
}

// --- Sharing methods ---

func scanSharing(scanner interface{ Scan(...any) error }) (*model.ListSharing, error) {
	var sh model.ListSharing
	err := scanner.Scan(&sh.ID, &sh.ListID, &sh.UserID, &sh.CanEdit, &sh.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

const sharingCols = `id, list_id, user_id, can_edit, created_at`

// Share grants or updates a user's edit rights on a list. One grant per
// (list, user); re-sharing overwrites can_edit in place.
func (s *ListStore) Share(ctx context.Context, listID, userID int64, canEdit bool) (*model.ListSharing, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list_sharing (list_id, user_id, can_edit) VALUES (?, ?, ?)
		 ON CONFLICT (list_id, user_id) DO UPDATE SET can_edit = excluded.can_edit`,
		listID, userID, canEdit,
	)
	if err != nil {
		return nil, fmt.Errorf("share list: %w", err)
	}
	return s.GetSharing(ctx, listID, userID)
}

func (s *ListStore) GetSharing(ctx context.Context, listID, userID int64) (*model.ListSharing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sharingCols+` FROM list_sharing WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	sh, err := scanSharing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sharing: %w", err)
	}
	return sh, nil
}

func (s *ListStore) ListSharings(ctx context.Context, listID int64) ([]model.ListSharing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sharingCols+` FROM list_sharing WHERE list_id = ? ORDER BY created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sharings: %w", err)
	}
	defer rows.Close()

	var sharings []model.ListSharing
	for rows.Next() {
		sh, err := scanSharing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sharing: %w", err)
		}
		sharings = append(sharings, *sh)
	}
	return sharings, rows.Err()
}
