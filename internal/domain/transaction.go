package domain

import "time"

// Transaction is a single sale event as returned by the economy feed.
// Identity is ID; the feed orders transactions newest-first within a page.
type Transaction struct {
	ID        int64     `json:"id"`
	Created   time.Time `json:"created"`
	IsPending bool      `json:"isPending"`
	Agent     Agent     `json:"agent"`
	Details   Details   `json:"details"`
	Currency  Currency  `json:"currency"`
}

// Agent is the buying party of a transaction.
type Agent struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Details describes the item that was sold.
type Details struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Currency is the amount of a transaction.
type Currency struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

// TransactionHistory is an ordered sequence of transactions, newest first,
// with no duplicate IDs. The head element is the most recently known
// transaction at the last successful merge.
type TransactionHistory []Transaction

// WatermarkID returns the ID of the newest known transaction. The second
// return value is false when the history is empty.
func (h TransactionHistory) WatermarkID() (int64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[0].ID, true
}

// MergeNewer prepends newer onto h. Callers must pass only transactions
// that are strictly newer than the watermark, ordered newest-first, so the
// concatenation preserves the sort invariant and introduces no duplicates.
func (h TransactionHistory) MergeNewer(newer TransactionHistory) TransactionHistory {
	if len(newer) == 0 {
		return h
	}

	merged := make(TransactionHistory, 0, len(newer)+len(h))
	merged = append(merged, newer...)
	merged = append(merged, h...)
	return merged
}

// TransactionPage is one page of the cursor-paginated feed. An empty
// NextPageCursor signals that no further pages exist.
type TransactionPage struct {
	Transactions   []Transaction
	NextPageCursor string
}
