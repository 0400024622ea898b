package domain

import "strings"

// Credentials authenticate feed requests for one tracked group. The cookie
// is opaque to the core and is attached as a session header by the feed
// adapter.
type Credentials struct {
	GroupID string
	Cookie  string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.GroupID) == "" || strings.TrimSpace(c.Cookie) == "" {
		return ErrMissingCredentials
	}
	return nil
}
