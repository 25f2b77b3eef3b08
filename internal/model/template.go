package model

import "time"

// TemplateItem is one entry of a template bundle. Bundles are stored as
// a JSON array in the templates table; everything above the store layer
// works with the structured form.
type TemplateItem struct {
	Name     string `json:"name"`
	NameHE   string `json:"name_he,omitempty"`
	Category string `json:"category,omitempty"`
}

type Template struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Items      []TemplateItem `json:"items"`
	CreatedBy  *int64         `json:"created_by"`
	IsSystem   bool           `json:"is_system"`
	UsageCount int            `json:"usage_count"`
	LastUsed   *time.Time     `json:"last_used"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TemplateUsage is an audit row recorded once per template application.
// ItemsAdded counts freshly created items only; merges are excluded.
type TemplateUsage struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"template_id"`
	ListID     int64     `json:"list_id"`
	UsedBy     *int64    `json:"used_by"`
	ItemsAdded int       `json:"items_added"`
	CreatedAt  time.Time `json:"created_at"`
}
