package domain

import "time"

// ClientIdentity is the stable pseudo-identity behind a client token.
// Rows are created on first sight and never deleted; quota fields are
// only mutated through the admin surface.
type ClientIdentity struct {
	ID             int64
	Token          string
	FirstIP        string
	FirstUserAgent string
	DailyQuota     int
	Unlimited      bool
	UnlimitedUntil *time.Time
	SelfSubject    string
	Active         bool
	CreatedAt      time.Time
}

// HasUnlimitedAccess reports whether quota accounting is bypassed for
// this client at the given instant.
func (c *ClientIdentity) HasUnlimitedAccess(now time.Time) bool {
	if c.Unlimited {
		return true
	}
	return c.UnlimitedUntil != nil && c.UnlimitedUntil.After(now)
}
