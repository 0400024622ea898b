package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/egemenh/salestracker/internal/domain"
	"github.com/egemenh/salestracker/internal/ports"
)

const (
	// DefaultPageDelay throttles request rate to the feed between pages,
	// independent of any rate-limit signal from the server.
	DefaultPageDelay = 4 * time.Second

	backoffBaseSeconds   = 5
	backoffStepSeconds   = 5
	backoffCapSeconds    = 30
	maxConsecutiveErrors = 10
)

// SyncEngine owns the pagination, backoff, and merge algorithm. It is
// stateless between passes; each pass receives the known history and
// returns the merged result without touching shared state.
type SyncEngine struct {
	feed      ports.FeedClient
	sleeper   ports.Sleeper
	pageDelay time.Duration
	logger    *log.Logger
}

func NewSyncEngine(feed ports.FeedClient, sleeper ports.Sleeper, logger *log.Logger) *SyncEngine {
	if sleeper == nil {
		sleeper = ports.SystemSleeper{}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &SyncEngine{
		feed:      feed,
		sleeper:   sleeper,
		pageDelay: DefaultPageDelay,
		logger:    logger,
	}
}

// SetPageDelay overrides the inter-page throttle. Non-positive values
// keep the default.
func (e *SyncEngine) SetPageDelay(d time.Duration) {
	if d > 0 {
		e.pageDelay = d
	}
}

// PassRequest parameterizes a single sync pass.
type PassRequest struct {
	Credentials domain.Credentials
	Known       domain.TransactionHistory
	// Background suppresses the visible rate-limit countdown; the delay is
	// slept in one piece instead of one-second steps.
	Background bool
	// Status receives user-visible progress text on foreground passes.
	// May be nil.
	Status func(text string)
}

// PassResult is the outcome of one sync pass. Err is nil on full or
// partial success; a stats-only failure never sets it. History always
// holds the post-merge history, which is the known history unchanged when
// nothing new was collected.
type PassResult struct {
	History domain.TransactionHistory
	Stats   *domain.Stats
	Merged  int
	Err     error
}

// RunPass fetches the balance snapshot and walks the transaction feed from
// its newest page until it reaches the known watermark or runs out of
// pages, merging everything newer into the known history.
func (e *SyncEngine) RunPass(ctx context.Context, req PassRequest) PassResult {
	result := PassResult{History: req.Known}

	if err := req.Credentials.Validate(); err != nil {
		result.Err = err
		return result
	}

	status := req.Status
	if status == nil {
		status = func(string) {}
	}

	if stats, err := e.feed.GetStats(ctx, req.Credentials); err != nil {
		// Stale balance display is acceptable; the pass continues.
		e.logger.Warn("stats fetch failed", "group", req.Credentials.GroupID, "err", err)
	} else {
		result.Stats = &stats
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	watermark, hasWatermark := req.Known.WatermarkID()
	if hasWatermark {
		status("Scanning for new sales...")
	} else {
		status("Downloading transaction history...")
	}

	var collected domain.TransactionHistory
	cursor := ""
	consecutiveErrors := 0

	for {
		page, err := e.feed.GetTransactions(ctx, req.Credentials, cursor)
		if err != nil {
			var feedErr *domain.FeedError
			if errors.As(err, &feedErr) && feedErr.Retryable() {
				if consecutiveErrors >= maxConsecutiveErrors {
					result.Err = domain.ErrFeedUnavailable
					break
				}

				delay := backoffDelay(consecutiveErrors)
				e.logger.Debug("feed rate limited, backing off",
					"status", feedErr.Status, "delay", delay, "consecutive", consecutiveErrors)
				if waitErr := e.backoff(ctx, delay, req.Background, status); waitErr != nil {
					result.Err = waitErr
					return result
				}
				consecutiveErrors++
				continue
			}

			// Fatal for this pass. Already-collected pages still merge below.
			result.Err = fmt.Errorf("fetch transactions: %w", err)
			break
		}

		consecutiveErrors = 0

		caughtUp := false
		for _, tx := range page.Transactions {
			if hasWatermark && tx.ID == watermark {
				caughtUp = true
				break
			}
			collected = append(collected, tx)
		}

		if caughtUp || page.NextPageCursor == "" {
			break
		}

		cursor = page.NextPageCursor
		if err := e.sleeper.Sleep(ctx, e.pageDelay); err != nil {
			result.Err = err
			return result
		}
	}

	if len(collected) > 0 {
		result.History = req.Known.MergeNewer(collected)
		result.Merged = len(collected)
		e.logger.Info("merged new transactions", "count", len(collected))
	}

	return result
}

// backoff waits out a rate-limit delay. Foreground passes count the delay
// down in one-second steps so the user sees live progress and the wait
// stays responsive to cancellation.
func (e *SyncEngine) backoff(ctx context.Context, delay time.Duration, background bool, status func(string)) error {
	if background {
		return e.sleeper.Sleep(ctx, delay)
	}

	for remaining := int(delay / time.Second); remaining > 0; remaining-- {
		status(fmt.Sprintf("Rate limited, retrying in %ds...", remaining))
		if err := e.sleeper.Sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}

func backoffDelay(consecutive int) time.Duration {
	seconds := backoffBaseSeconds + backoffStepSeconds*consecutive
	if seconds > backoffCapSeconds {
		seconds = backoffCapSeconds
	}
	return time.Duration(seconds) * time.Second
}
