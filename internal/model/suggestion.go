package model

import "time"

const (
	SuggestionKindItem     = "item"
	SuggestionKindCategory = "category"
)

const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
)

// Suggestion is a user proposal awaiting an admin decision. Item and
// category suggestions share a table; Kind selects which payload fields
// are meaningful. Resolution is terminal either way.
type Suggestion struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	SuggestedBy int64  `json:"suggested_by"`

	// Item payload.
	ListID       *int64 `json:"list_id"`
	ItemName     string `json:"item_name"`
	ItemCategory string `json:"item_category"`

	// Category payload.
	CategoryKey   string `json:"category_key"`
	CategoryEmoji string `json:"category_emoji"`
	NameEN        string `json:"name_en"`
	NameHE        string `json:"name_he"`

	ApprovedBy *int64     `json:"approved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
