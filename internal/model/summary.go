package model

// ExternalProfileSummary is the normalized result of one platform sync.
// Every field is always present; counts and totals default to zero when
// the corresponding remote call failed or returned nothing.
type ExternalProfileSummary struct {
	UserInfo SummaryUserInfo `json:"user_info"`
	Bounties SummaryBounties `json:"bounties"`
	Reports  SummaryReports  `json:"reports"`
	Programs SummaryPrograms `json:"programs"`
}

type SummaryUserInfo struct {
	Username   string `json:"username"`
	Reputation int    `json:"reputation"`
	Signal     int    `json:"signal"`
	Impact     int    `json:"impact"`
}

type SummaryBounties struct {
	TotalAwarded Money `json:"total_awarded"`
	TotalCount   int   `json:"total_count"`
}

type SummaryReports struct {
	TotalCount         int `json:"total_count"`
	ResolvedCount      int `json:"resolved_count"`
	DuplicateCount     int `json:"duplicate_count"`
	NotApplicableCount int `json:"not_applicable_count"`
}

type SummaryPrograms struct {
	InvitedCount       int `json:"invited_count"`
	ParticipatingCount int `json:"participating_count"`
}
