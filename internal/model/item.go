package model

import "time"

type ShoppingItem struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Name      string    `json:"name"`
	NameKey   string    `json:"name_key"`
	Category  string    `json:"category"`
	AddedBy   *int64    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ItemNote struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	UserID    *int64    `json:"user_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Per-user fulfillment statuses. Each user tracks their own view of an
// item; there is no single global bought/not-found flag.
const (
	StatusPending  = "pending"
	StatusBought   = "bought"
	StatusNotFound = "not_found"
)

type ItemStatus struct {
	ItemID    int64     `json:"item_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteView is a note joined with its author's display name.
type NoteView struct {
	Note     string `json:"note"`
	UserName string `json:"user_name"`
}

// ItemView is a shopping item prepared for presentation: contributor
// display name plus all attributed notes in creation order.
type ItemView struct {
	ShoppingItem
	AddedByName string     `json:"added_by_name"`
	Notes       []NoteView `json:"notes"`
}
