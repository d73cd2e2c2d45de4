package model

import "time"

// PlatformKind identifies which bug bounty service a platform row points at.
type PlatformKind string

const (
	PlatformHackerOne PlatformKind = "hackerone"
	PlatformBugcrowd  PlatformKind = "bugcrowd"
	PlatformIntigriti PlatformKind = "intigriti"
	PlatformYesWeHack PlatformKind = "yeswehack"
	PlatformOther     PlatformKind = "other"
)

// IsValid reports whether k is one of the known platform kinds.
func (k PlatformKind) IsValid() bool {
	switch k {
	case PlatformHackerOne, PlatformBugcrowd, PlatformIntigriti, PlatformYesWeHack, PlatformOther:
		return true
	default:
		return false
	}
}

// Platform is a bug bounty platform the user hunts on.
type Platform struct {
	ID        string       `json:"id"`
	UserID    string       `json:"-"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Kind      PlatformKind `json:"kind"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
