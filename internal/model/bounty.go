package model

import "time"

// Bounty is a monetary target the user is working towards, e.g.
// "earn $5,000 before the end of the quarter".
type Bounty struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	Title         string     `json:"title"`
	TargetAmount  Money      `json:"targetAmount"`
	CurrentAmount Money      `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Countdown is the time left until a deadline, split for display.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// BountyProgress is derived from a Bounty at a point in time.
type BountyProgress struct {
	BountyID  string    `json:"bountyId"`
	Percent   float64   `json:"percent"`
	Remaining Money     `json:"remaining"`
	Completed bool      `json:"completed"`
	Overdue   bool      `json:"overdue"`
	HasDue    bool      `json:"hasDeadline"`
	DaysLeft  int       `json:"daysLeft"`
	TimeLeft  Countdown `json:"timeLeft"`
}
