package domain

import (
	"sort"
	"time"
)

// CredentialsVersion is the current on-disk format version. Records carrying
// any other version fail structural validation and load as corrupt.
const CredentialsVersion = 1

// ExpirySkew is subtracted from the recorded expiry when deciding whether an
// access token is still usable. It guards against clock drift and in-flight
// request latency.
const ExpirySkew = 60 * time.Second

// Credentials is the persisted OAuth token material for the single user
// account. It is created by the consent flow, mutated (AccessToken, Expiry)
// by the refresher, and written back to disk after every mutation.
type Credentials struct {
	// Version tags the record format for future migration. An unknown
	// version is treated as corruption by the store.
	Version int `json:"version"`

	// AccessToken is the short-lived bearer token for API access.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token used to obtain new access tokens.
	// Present once a consent grant has completed. Never logged.
	RefreshToken string `json:"refresh_token"`

	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`

	// Scopes is the scope set granted at consent time. A refresh never
	// widens or narrows it; changing scopes requires a brand-new grant.
	Scopes []string `json:"scopes"`

	// Expiry is when AccessToken expires. Always set together with
	// AccessToken, never one without the other.
	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the access token is past (or within skew of) its
// expiry and must not be used for API calls.
func (c *Credentials) Expired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return true
	}
	return !now.Add(ExpirySkew).Before(c.Expiry)
}

// HasRefreshToken reports whether a refresh token is available.
func (c *Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Validate checks structural validity of a loaded record: known version,
// access and refresh tokens present, expiry set. The store maps a failure
// here to ErrCredentialsCorrupt.
func (c *Credentials) Validate() error {
	if c.Version != CredentialsVersion {
		return ErrCredentialsCorrupt
	}
	if c.AccessToken == "" || c.RefreshToken == "" {
		return ErrCredentialsCorrupt
	}
	if c.Expiry.IsZero() {
		return ErrCredentialsCorrupt
	}
	return nil
}

// SameScopes reports whether the granted scope set equals the given one,
// ignoring order.
func (c *Credentials) SameScopes(scopes []string) bool {
	if len(c.Scopes) != len(scopes) {
		return false
	}
	a := append([]string(nil), c.Scopes...)
	b := append([]string(nil), scopes...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. The refresher hands copies to concurrent
// callers so a later in-place mutation cannot race with readers.
func (c *Credentials) Clone() *Credentials {
	out := *c
	out.Scopes = append([]string(nil), c.Scopes...)
	return &out
}
