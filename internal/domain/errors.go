package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("group id and cookie are required")
	ErrFeedUnavailable    = errors.New("feed unavailable after repeated rate limits")
	ErrSyncInFlight       = errors.New("a sync pass is already running")
	ErrSecretNotFound     = errors.New("secret not found")
)
