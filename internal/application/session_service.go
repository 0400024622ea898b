package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/egemenh/salestracker/internal/domain"
	"github.com/egemenh/salestracker/internal/ports"
)

const (
	storeKeyGroupID = "groupId"
	storeKeyCookie  = "cookie"
)

// Snapshot is the read-only view of the session consumed by the display
// layer.
type Snapshot struct {
	GroupID      string
	Cookie       string
	Transactions domain.TransactionHistory
	Stats        *domain.Stats
	Loading      bool
	Error        string
	StatusText   string
	Countdown    int
}

// SessionService owns the session state and is the only place that mutates
// it. The sync engine stays stateless; passes receive a history snapshot
// and return the merged result, so a pass can never corrupt state it does
// not own. The loading flag doubles as the mutual-exclusion guard: at most
// one sync pass runs at a time.
type SessionService struct {
	engine   *SyncEngine
	secrets  ports.SecretStore
	history  ports.HistoryRepository
	notifier ports.Notifier
	period   int
	logger   *log.Logger

	mu    sync.Mutex
	state Snapshot
}

func NewSessionService(engine *SyncEngine, secrets ports.SecretStore, history ports.HistoryRepository, notifier ports.Notifier, logger *log.Logger) *SessionService {
	if logger == nil {
		logger = log.Default()
	}

	return &SessionService{
		engine:   engine,
		secrets:  secrets,
		history:  history,
		notifier: notifier,
		period:   DefaultRefreshPeriod,
		logger:   logger,
		state:    Snapshot{Countdown: DefaultRefreshPeriod},
	}
}

// SetRefreshPeriod overrides the background refresh countdown, in ticks.
// Non-positive values keep the default. Call before the scheduler starts.
func (s *SessionService) SetRefreshPeriod(period int) {
	if period <= 0 {
		return
	}

	s.mu.Lock()
	s.period = period
	s.state.Countdown = period
	s.mu.Unlock()
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init populates the session from the persistent store. It does not
// trigger any network traffic; call StartupSync afterwards for the
// catch-up pass.
func (s *SessionService) Init(ctx context.Context) error {
	groupID, err := s.secrets.Get(ctx, storeKeyGroupID)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("load group id: %w", err)
	}
	cookie, err := s.secrets.Get(ctx, storeKeyCookie)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("load cookie: %w", err)
	}

	if groupID == "" || cookie == "" {
		return nil
	}

	history, err := s.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("load transaction history: %w", err)
	}

	s.mu.Lock()
	s.state.GroupID = groupID
	s.state.Cookie = cookie
	s.state.Transactions = history
	s.mu.Unlock()

	return nil
}

// StartupSync runs the initial catch-up pass after Init. With persisted
// history the pass is silent (background mode); without it the full
// backfill is visible (foreground mode). No-op when logged out.
func (s *SessionService) StartupSync(ctx context.Context) error {
	s.mu.Lock()
	creds := domain.Credentials{GroupID: s.state.GroupID, Cookie: s.state.Cookie}
	hasHistory := len(s.state.Transactions) > 0
	s.mu.Unlock()

	if creds.Validate() != nil {
		return nil
	}

	return s.runPass(ctx, hasHistory)
}

// Login stores the credentials in memory and runs a visible foreground
// pass. Credentials are persisted only after the pass merges data.
func (s *SessionService) Login(ctx context.Context, groupID, cookie string) error {
	creds := domain.Credentials{GroupID: groupID, Cookie: cookie}
	if err := creds.Validate(); err != nil {
		s.setError(err.Error())
		return err
	}

	s.mu.Lock()
	s.state.GroupID = groupID
	s.state.Cookie = cookie
	s.mu.Unlock()

	return s.runPass(ctx, false)
}

// Refresh runs a manual foreground pass. It is a guarded no-op while
// another pass is in flight.
func (s *SessionService) Refresh(ctx context.Context) error {
	return s.runPass(ctx, false)
}

// TryBackgroundRefresh starts a background pass in its own goroutine and
// reports whether one was actually started. Used as the scheduler trigger.
func (s *SessionService) TryBackgroundRefresh(ctx context.Context) bool {
	s.mu.Lock()
	busy := s.state.Loading
	creds := domain.Credentials{GroupID: s.state.GroupID, Cookie: s.state.Cookie}
	s.mu.Unlock()

	if busy || creds.Validate() != nil {
		return false
	}

	go func() {
		if err := s.runPass(ctx, true); err != nil && !errors.Is(err, context.Canceled) {
			// Background passes never surface transient errors to the user.
			s.logger.Warn("background sync pass failed", "err", err)
		}
	}()
	return true
}

// ResetData deletes the persisted history, clears it in memory, and
// re-runs a full visible backfill. Credentials stay untouched. The caller
// is responsible for user confirmation.
func (s *SessionService) ResetData(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return domain.ErrSyncInFlight
	}
	s.state.Transactions = nil
	s.mu.Unlock()

	if err := s.history.Delete(ctx); err != nil {
		return fmt.Errorf("delete transaction history: %w", err)
	}

	return s.runPass(ctx, false)
}

// Logout deletes every persisted key and resets the in-memory state to the
// initial logged-out snapshot.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.secrets.Delete(ctx, storeKeyGroupID); err != nil {
		return fmt.Errorf("delete group id: %w", err)
	}
	if err := s.secrets.Delete(ctx, storeKeyCookie); err != nil {
		return fmt.Errorf("delete cookie: %w", err)
	}
	if err := s.history.Delete(ctx); err != nil {
		return fmt.Errorf("delete transaction history: %w", err)
	}

	s.mu.Lock()
	s.state = Snapshot{Countdown: s.period}
	s.mu.Unlock()

	return nil
}

// SetGroupID updates the in-memory group id before login.
func (s *SessionService) SetGroupID(groupID string) {
	s.mu.Lock()
	s.state.GroupID = groupID
	s.mu.Unlock()
}

// SetCookie updates the in-memory cookie before login.
func (s *SessionService) SetCookie(cookie string) {
	s.mu.Lock()
	s.state.Cookie = cookie
	s.mu.Unlock()
}

// Active reports whether the background refresh countdown should run.
func (s *SessionService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := domain.Credentials{GroupID: s.state.GroupID, Cookie: s.state.Cookie}
	return len(s.state.Transactions) > 0 && creds.Validate() == nil
}

// SetCountdown records the scheduler countdown for display.
func (s *SessionService) SetCountdown(remaining int) {
	s.mu.Lock()
	s.state.Countdown = remaining
	s.mu.Unlock()
}

// NewScheduler builds the recurring refresh countdown bound to this
// session.
func (s *SessionService) NewScheduler(ctx context.Context, sleeper ports.Sleeper) *Scheduler {
	return NewScheduler(
		s.period,
		s.Active,
		func() bool { return s.TryBackgroundRefresh(ctx) },
		s.SetCountdown,
		sleeper,
		s.logger,
	)
}

// runPass claims the loading flag, delegates to the sync engine, and folds
// the result back into the session state. Results of a cancelled pass are
// discarded without mutating state.
func (s *SessionService) runPass(ctx context.Context, background bool) error {
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return domain.ErrSyncInFlight
	}
	s.state.Loading = true
	if !background {
		s.state.Error = ""
	}
	creds := domain.Credentials{GroupID: s.state.GroupID, Cookie: s.state.Cookie}
	known := s.state.Transactions
	s.mu.Unlock()

	req := PassRequest{Credentials: creds, Known: known, Background: background}
	if !background {
		req.Status = s.setStatus
	}

	result := s.engine.RunPass(ctx, req)

	s.mu.Lock()
	s.state.Loading = false
	s.state.StatusText = ""
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	if result.Stats != nil {
		s.state.Stats = result.Stats
	}
	if result.Merged > 0 {
		s.state.Transactions = result.History
	}
	if result.Err != nil && !background {
		s.state.Error = result.Err.Error()
	}
	s.mu.Unlock()

	if result.Merged > 0 {
		if err := s.history.Save(ctx, result.History); err != nil {
			s.logger.Error("persist transaction history", "err", err)
		}
		if !background {
			// Background passes are periodic maintenance; only a
			// user-initiated pass may overwrite stored credentials.
			if err := s.secrets.Put(ctx, storeKeyGroupID, creds.GroupID); err != nil {
				s.logger.Error("persist group id", "err", err)
			}
			if err := s.secrets.Put(ctx, storeKeyCookie, creds.Cookie); err != nil {
				s.logger.Error("persist cookie", "err", err)
			}
		}
		if background && s.notifier != nil {
			s.notifier.SalesArrived(result.Merged)
		}
	}

	return result.Err
}

func (s *SessionService) setStatus(text string) {
	s.mu.Lock()
	s.state.StatusText = text
	s.mu.Unlock()
}

func (s *SessionService) setError(text string) {
	s.mu.Lock()
	s.state.Error = text
	s.mu.Unlock()
}
