package model

import "time"

// CustomCategory is a seeded or admin-approved shopping category with
// bilingual display names.
type CustomCategory struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Emoji     string    `json:"emoji"`
	NameEN    string    `json:"name_en"`
	NameHE    string    `json:"name_he"`
	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
