package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

type UserStore struct {
	db *database.DB
}

func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Language, &u.IsAdmin, &u.IsAuthorized, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, username, first_name, last_name, language, is_admin, is_authorized, created_at`

// Upsert creates the user on first contact or refreshes their profile
// fields. Admin and authorization flags are never touched here; those
// are toggled explicitly by an admin.
func (s *UserStore) Upsert(ctx context.Context, id int64, username, firstName, lastName, language string) (*model.User, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, first_name, last_name, language) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   username = excluded.username,
		   first_name = excluded.first_name,
		   last_name = excluded.last_name,
		   language = excluded.language`,
		id, username, firstName, lastName, language,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetAuthorized(ctx context.Context, id int64, authorized bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_authorized = ? WHERE id = ?`, authorized, id)
	if err != nil {
		return fmt.Errorf("set authorized: %w", err)
	}
	return nil
}

func (s *UserStore) SetAdmin(ctx context.Context, id int64, admin bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_admin = ? WHERE id = ?`, admin, id)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY first_name ASC, username ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
