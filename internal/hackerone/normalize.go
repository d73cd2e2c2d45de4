package hackerone

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sakif/bounty-tracker/internal/model"
)

// Normalize folds the three call results into a summary. It has no side
// effects.
//
// balance is nil when the balance call failed or returned null; reports is
// empty when the reports call failed. Negative amounts are never summed
// and a negative balance is ignored, so total_awarded is never below zero.
// requestUsername is used when the profile carries no username of its own.
func Normalize(requestUsername string, profile Profile, balance *decimal.Decimal, reports []RawReport) model.ExternalProfileSummary {
	var s model.ExternalProfileSummary

	s.UserInfo.Username = requestUsername
	if profile.Username != "" {
		s.UserInfo.Username = profile.Username
	}
	s.UserInfo.Reputation = count(profile.Reputation)
	s.UserInfo.Signal = count(profile.Signal)
	s.UserInfo.Impact = count(profile.Impact)

	s.Programs.InvitedCount = count(profile.InvitedProgramsCount)
	s.Programs.ParticipatingCount = count(profile.ParticipatingProgramsCount)

	awardedSum := decimal.Zero
	for _, r := range reports {
		s.Reports.TotalCount++
		switch r.State {
		case StateResolved:
			s.Reports.ResolvedCount++
		case StateDuplicate:
			s.Reports.DuplicateCount++
		case StateNotApplicable:
			s.Reports.NotApplicableCount++
		}

		if r.BountyAwardedAt != nil {
			s.Bounties.TotalCount++
			if r.BountyAmount.Valid && !r.BountyAmount.Decimal.IsNegative() {
				awardedSum = awardedSum.Add(r.BountyAmount.Decimal)
			}
		}
	}

	if balance != nil && !balance.IsNegative() {
		s.Bounties.TotalAwarded = model.NewMoney(*balance)
	} else {
		s.Bounties.TotalAwarded = model.NewMoney(awardedSum)
	}
	return s
}

// count truncates an upstream number to a non-negative integer. Values
// past the int range saturate at math.MaxInt.
func count(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	}
	return int(f)
}
