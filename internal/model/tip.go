package model

import "time"

// Tip is a short hunting note. Content is markdown source and is stored
// verbatim; rendering is the frontend's job.
type Tip struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
