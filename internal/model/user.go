// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// The dashboard is single-user in practice, but every record is still owned
// by a user ID. When GitHub login is enabled the user comes from OAuth;
// in local mode all requests act as one configured local user.
//
// WHY GitHubID int64?
// GitHub user IDs are integers (e.g. 1234567). The UNIQUE constraint on
// github_id ensures one GitHub account maps to exactly one app account.
type User struct {
	ID        string    `json:"id"        db:"id"`
	GitHubID  int64     `json:"githubId"  db:"github_id"`
	Login     string    `json:"login"     db:"login"`
	Email     string    `json:"email"     db:"email"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
