package model

import "time"

// DefaultListID is the bootstrap list seeded by migration.
const DefaultListID int64 = 1

type List struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	ListType  string     `json:"list_type"`
	IsActive  bool       `json:"is_active"`
	IsFrozen  bool       `json:"is_frozen"`
	FrozenAt  *time.Time `json:"frozen_at"`
	CreatedBy *int64     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListSharing grants a user edit rights on a list they do not own.
// At most one grant exists per (list, user) pair.
type ListSharing struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	UserID    int64     `json:"user_id"`
	CanEdit   bool      `json:"can_edit"`
	CreatedAt time.Time `json:"created_at"`
}
