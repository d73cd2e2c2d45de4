package model

import "time"

// Checklist is a named list of steps, e.g. "Recon for a new wildcard scope".
type Checklist struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Items     []ChecklistItem `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ChecklistItem is one step of a Checklist. Position orders items within
// their checklist.
type ChecklistItem struct {
	ID          string    `json:"id"`
	ChecklistID string    `json:"checklistId"`
	Text        string    `json:"text"`
	Done        bool      `json:"done"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompletionPercent returns the share of done items, 0 for an empty list.
func (c *Checklist) CompletionPercent() float64 {
	if len(c.Items) == 0 {
		return 0
	}
	done := 0
	for _, it := range c.Items {
		if it.Done {
			done++
		}
	}
	return float64(done) * 100 / float64(len(c.Items))
}
