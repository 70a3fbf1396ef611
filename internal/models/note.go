package models

import "time"

// Note is a free-text annotation for a single calendar day. Notes are keyed
// by their UTC date in YYYY-MM-DD form and created implicitly on first save.
type Note struct {
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
