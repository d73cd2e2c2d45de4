package model

// Dashboard is the overview shown on the landing screen.
type Dashboard struct {
	Platforms          int              `json:"platforms"`
	Reports            ReportStats      `json:"reports"`
	ActiveBounties     []BountyProgress `json:"activeBounties"`
	Checklists         int              `json:"checklists"`
	ChecklistProgress  float64          `json:"checklistProgress"`
	Tips               int              `json:"tips"`
	UnreadReadingItems int              `json:"unreadReadingItems"`
}
