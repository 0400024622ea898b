package domain

import "fmt"

// FeedError carries the HTTP-like status of a failed feed request.
// Status 0 means the request never produced a response (transport failure).
type FeedError struct {
	Status  int
	Message string
}

func (e *FeedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("feed request failed: status %d", e.Status)
	}
	return fmt.Sprintf("feed request failed: status %d: %s", e.Status, e.Message)
}

// Retryable reports whether the failure is a transient rate-limit or
// server condition worth retrying with backoff.
func (e *FeedError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}
