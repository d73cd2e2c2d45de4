package model

import "time"

// Credential is one user's authentication material for one platform.
// There is at most one per (UserID, PlatformID).
//
// SealedBlob is the encrypted JSON encoding of a CredentialBlob; the
// repository never sees the plaintext token.
type Credential struct {
	UserID     string
	PlatformID string
	Username   string
	SealedBlob []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CredentialBlob is the opaque part of a credential. APIToken is the only
// field the sync requires.
type CredentialBlob struct {
	APIToken string `json:"api_token"`
}

// CredentialStatus is what the API reveals about a stored credential.
// The token itself is never returned.
type CredentialStatus struct {
	PlatformID string    `json:"platformId"`
	Configured bool      `json:"configured"`
	Username   string    `json:"username,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}
