package model

import "time"

// Severity of a submitted vulnerability report.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity, lowest first.
var Severities = []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) IsValid() bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

// ReportStatus is the triage state of a submitted report. The values mirror
// the states bug bounty platforms use so that synced data and hand-entered
// data read the same.
type ReportStatus string

const (
	StatusNew           ReportStatus = "new"
	StatusTriaged       ReportStatus = "triaged"
	StatusNeedsMoreInfo ReportStatus = "needs-more-info"
	StatusResolved      ReportStatus = "resolved"
	StatusDuplicate     ReportStatus = "duplicate"
	StatusInformative   ReportStatus = "informative"
	StatusNotApplicable ReportStatus = "not-applicable"
)

// ReportStatuses lists every status in workflow order.
var ReportStatuses = []ReportStatus{
	StatusNew, StatusTriaged, StatusNeedsMoreInfo, StatusResolved,
	StatusDuplicate, StatusInformative, StatusNotApplicable,
}

func (s ReportStatus) IsValid() bool {
	for _, v := range ReportStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Report is a vulnerability report the user submitted to a program.
//
// PlatformID and SubmittedAt are pointers because both are optional: a
// report can be drafted before it is tied to a platform or sent.
type Report struct {
	ID           string       `json:"id"`
	UserID       string       `json:"-"`
	PlatformID   *string      `json:"platformId,omitempty"`
	Title        string       `json:"title"`
	Severity     Severity     `json:"severity"`
	Status       ReportStatus `json:"status"`
	BountyAmount Money        `json:"bountyAmount"`
	SubmittedAt  *time.Time   `json:"submittedAt,omitempty"`
	URL          string       `json:"url"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ReportFilter narrows a report list. Zero values mean "don't filter".
type ReportFilter struct {
	Status     ReportStatus
	Severity   Severity
	PlatformID string
	Query      string
}

// ReportStats aggregates a user's reports for the dashboard.
type ReportStats struct {
	Total       int                  `json:"total"`
	ByStatus    map[ReportStatus]int `json:"byStatus"`
	BySeverity  map[Severity]int     `json:"bySeverity"`
	TotalEarned Money                `json:"totalEarned"`
}
