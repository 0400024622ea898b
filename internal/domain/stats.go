package domain

// Stats is a point-in-time snapshot of the group balance. It is replaced
// wholesale on every successful fetch, never merged.
type Stats struct {
	Robux        int64 `json:"robux"`
	PendingRobux int64 `json:"pendingRobux"`
}
