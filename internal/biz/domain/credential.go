package domain

import "time"

// TokenLifetime is the conservative expiry applied to every refreshed token
const TokenLifetime = 24 * time.Hour

// TokenPair is what the OAuth endpoint returns
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // as reported by the provider, informational
}

// StoredCredential is the persisted provider token pair
type StoredCredential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// Valid checks whether the access token can still be used
func (c *StoredCredential) Valid(now time.Time) bool {
	return c != nil && c.AccessToken != "" && now.Before(c.Expiry)
}
