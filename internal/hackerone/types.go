package hackerone

import "github.com/shopspring/decimal"

// Profile holds the profile attributes the summary uses. Every field is
// optional upstream; absent numbers decode as zero. Signal and impact are
// fractional on HackerOne, so numbers are decoded as float64.
type Profile struct {
	Username                   string  `json:"username"`
	Reputation                 float64 `json:"reputation"`
	Signal                     float64 `json:"signal"`
	Impact                     float64 `json:"impact"`
	InvitedProgramsCount       float64 `json:"invited_programs_count"`
	ParticipatingProgramsCount float64 `json:"participating_programs_count"`
}

// RawReport is the part of a remote report record that gets folded into
// the summary.
type RawReport struct {
	State           string              `json:"state"`
	BountyAwardedAt *string             `json:"bounty_awarded_at"`
	BountyAmount    decimal.NullDecimal `json:"bounty_amount"`
}

// Report states with their own bucket in the summary. Any other state is
// only counted in the total.
const (
	StateResolved      = "resolved"
	StateDuplicate     = "duplicate"
	StateNotApplicable = "not-applicable"
)
