package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/models"
)

const (
	// MaxRetryAttempts - после стольких неудачных попыток запись очереди отбрасывается
	MaxRetryAttempts = 3
	// DefaultItemDelay - пауза между записями очереди внутри прохода
	DefaultItemDelay = time.Second
	// DefaultInterval - период фоновой синхронизации при наличии сети
	DefaultInterval = 5 * time.Minute
)

//go:generate moq -out remote_mock.go . RemoteAPI

// RemoteAPI is the server endpoint the queue is pushed to
type RemoteAPI interface {
	Create(ctx context.Context, record *models.Record) error
	Update(ctx context.Context, record *models.Record) error
	ForceUpdate(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, collection models.Collection, id string) error
	ForceDelete(ctx context.Context, collection models.Collection, id string) error
}

// Store is the part of the record store used by the sync manager
type Store interface {
	ResolveStore
	Drain(ctx context.Context) ([]*models.QueueEntry, error)
	RemoveEntry(ctx context.Context, id string) error
	IncrementRetry(ctx context.Context, id string, errMsg string) error
	MarkFailed(ctx context.Context, collection models.Collection, id string, errMsg string) error
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error
}

// Connectivity reports whether the server is reachable and publishes transitions
type Connectivity interface {
	Online() bool
	Subscribe() (<-chan bool, func())
}

// Config holds sync manager settings
type Config struct {
	Interval         time.Duration // период фоновой синхронизации
	ItemDelay        time.Duration // пауза между записями очереди
	MaxRetryAttempts int           // лимит попыток для одной записи
}

// DefaultConfig returns the default sync settings
func DefaultConfig() Config {
	return Config{
		Interval:         DefaultInterval,
		ItemDelay:        DefaultItemDelay,
		MaxRetryAttempts: MaxRetryAttempts,
	}
}

// Result is reported to the caller and to listeners after a pass
type Result struct {
	Errors  []string `json:"errors"`
	Synced  int      `json:"synced"`
	Failed  int      `json:"failed"`
	Success bool     `json:"success"`
}

// Listener receives the result of every completed pass
type Listener func(Result)

type subscription struct {
	fn Listener
	id uint64
}

// Manager drains the sync queue against the remote API.
// At most one pass runs at a time.
type Manager struct {
	api      RemoteAPI
	store    Store
	conn     Connectivity
	resolver *Resolver
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}

	listeners []subscription
	cfg       Config
	nextID    uint64
	mu        stdsync.Mutex
	syncing   atomic.Bool
}

// NewManager creates a sync manager.
// Zero Interval and MaxRetryAttempts take default values, ItemDelay is used as given
func NewManager(remote RemoteAPI, store Store, conn Connectivity, cfg Config, logger *slog.Logger) *Manager {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.ItemDelay < 0 {
		cfg.ItemDelay = 0
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = def.MaxRetryAttempts
	}

	return &Manager{
		api:      remote,
		store:    store,
		conn:     conn,
		resolver: NewResolver(remote, store, logger),
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// IsSyncing reports whether a pass is running
func (m *Manager) IsSyncing() bool {
	return m.syncing.Load()
}

// Subscribe registers a listener and returns a function removing it
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: l})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// ForceSync runs a pass on explicit user request; it is subject to the same guards as Sync
func (m *Manager) ForceSync(ctx context.Context) Result {
	m.logger.Info("Manual sync requested")
	return m.Sync(ctx)
}

// Sync runs one pass over the queue.
//
// A pass is rejected without touching the store when another pass is running
// or the device is offline; rejected passes do not notify listeners.
func (m *Manager) Sync(ctx context.Context) Result {
	if m.syncing.Load() {
		passCounter.WithLabelValues("rejected").Inc()
		return rejected(MsgSyncInProgress)
	}
	if !m.conn.Online() {
		passCounter.WithLabelValues("rejected").Inc()
		return rejected(MsgDeviceOffline)
	}
	if !m.syncing.CompareAndSwap(false, true) {
		passCounter.WithLabelValues("rejected").Inc()
		return rejected(MsgSyncInProgress)
	}

	result := func() Result {
		// Флаг снимается на любом пути выхода, включая панику
		defer m.syncing.Store(false)
		return m.pass(ctx)
	}()

	m.notify(result)
	return result
}

func (m *Manager) pass(ctx context.Context) Result {
	start := m.now()
	defer func() {
		passDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := m.store.Drain(ctx)
	if err != nil {
		m.logger.Error("Failed to read sync queue", "error", err)
		passCounter.WithLabelValues("failure").Inc()
		return Result{
			Success: false,
			Errors:  []string{fmt.Sprintf("failed to read sync queue: %v", err)},
		}
	}

	result := Result{Errors: []string{}}
	if len(entries) == 0 {
		m.logger.Debug("Sync queue is empty")
		result.Success = true
		m.finish(ctx, &result)
		return result
	}

	m.logger.Info("Starting synchronization", "entries", len(entries))

	interrupted := false
	for i, entry := range entries {
		if i > 0 {
			if err := sleep(ctx, m.cfg.ItemDelay); err != nil {
				// Оставшиеся записи будут обработаны в следующем проходе
				m.logger.Warn("Sync pass interrupted", "remaining", len(entries)-i, "error", err)
				result.Errors = append(result.Errors, fmt.Sprintf("sync interrupted: %v", err))
				interrupted = true
				break
			}
		}

		if err := m.processEntry(ctx, entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.ID, err))
			continue
		}
		result.Synced++
	}

	result.Success = result.Failed == 0 && !interrupted

	m.logger.Info("Synchronization completed",
		"synced", result.Synced,
		"failed", result.Failed,
		"success", result.Success)

	m.finish(ctx, &result)
	return result
}

// finish обновляет метрики и сохраняет время последней успешной синхронизации
func (m *Manager) finish(ctx context.Context, result *Result) {
	if !result.Success {
		passCounter.WithLabelValues("failure").Inc()
		return
	}

	passCounter.WithLabelValues("success").Inc()
	now := m.now()
	lastSuccessGauge.Set(float64(now.Unix()))

	if err := m.store.SaveLastSyncTimestamp(ctx, now.UnixMilli()); err != nil {
		// Не прерываем синхронизацию из-за ошибки сохранения timestamp
		m.logger.Warn("Failed to save last sync timestamp", "error", err)
	}
}

// processEntry отправляет одну запись очереди. Ошибка означает, что запись не синхронизирована.
func (m *Manager) processEntry(ctx context.Context, entry *models.QueueEntry) error {
	if entry.RetryCount >= m.cfg.MaxRetryAttempts {
		exhausted := &RetryExhaustedError{
			EntryID:   entry.ID,
			Attempts:  entry.RetryCount,
			LastError: entry.LastError,
		}
		m.logger.Warn("Abandoning queue entry",
			"entry_id", entry.ID,
			"retry_count", entry.RetryCount,
			"last_error", entry.LastError)

		if err := m.store.RemoveEntry(ctx, entry.ID); err != nil {
			m.logger.Error("Failed to remove abandoned entry", "entry_id", entry.ID, "error", err)
		}
		entryCounter.WithLabelValues("abandoned").Inc()
		return exhausted
	}

	err := m.push(ctx, entry)

	var conflict *api.ConflictError
	switch {
	case err == nil:
		err = m.store.CompleteEntry(ctx, entry.ID)
	case errors.As(err, &conflict):
		m.logger.Info("Server reported conflict", "entry_id", entry.ID)
		err = m.resolver.Resolve(ctx, entry, conflict.Server)
	}

	if err == nil {
		m.logger.Debug("Entry synced", "entry_id", entry.ID, "action", entry.Action)
		entryCounter.WithLabelValues("synced").Inc()
		return nil
	}

	msg := err.Error()
	m.logger.Warn("Failed to sync entry",
		"entry_id", entry.ID,
		"retry_count", entry.RetryCount+1,
		"error", msg)

	if rerr := m.store.IncrementRetry(ctx, entry.ID, msg); rerr != nil {
		m.logger.Error("Failed to update retry count", "entry_id", entry.ID, "error", rerr)
	}
	if ferr := m.store.MarkFailed(ctx, entry.Collection, entry.RecordID(), msg); ferr != nil {
		m.logger.Error("Failed to mark record failed", "entry_id", entry.ID, "error", ferr)
	}
	entryCounter.WithLabelValues("failed").Inc()

	return err
}

func (m *Manager) push(ctx context.Context, entry *models.QueueEntry) error {
	if entry.Data == nil {
		return fmt.Errorf("queue entry carries no record")
	}

	switch entry.Action {
	case models.ActionCreate:
		return m.api.Create(ctx, entry.Data)
	case models.ActionUpdate:
		return m.api.Update(ctx, entry.Data)
	case models.ActionDelete:
		return m.api.Delete(ctx, entry.Collection, entry.RecordID())
	default:
		return fmt.Errorf("unknown action %q", entry.Action)
	}
}

func (m *Manager) notify(result Result) {
	m.mu.Lock()
	listeners := make([]subscription, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, s := range listeners {
		s.fn(result)
	}
}

// Start runs the background loop: a pass on start if online, on every
// offline to online transition and periodically while online
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	transitions, unsubscribe := m.conn.Subscribe()
	m.mu.Unlock()

	go m.run(ctx, transitions, unsubscribe, done)

	m.logger.Info("Sync manager started", "interval", m.cfg.Interval)
	return nil
}

// Stop stops the background loop and waits for it to exit.
// A pass in progress is interrupted between entries.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	m.logger.Info("Sync manager stopped")
}

func (m *Manager) run(ctx context.Context, transitions <-chan bool, unsubscribe func(), done chan struct{}) {
	defer close(done)
	defer unsubscribe()

	if m.conn.Online() {
		m.trigger(ctx, "startup")
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-transitions:
			if !ok {
				transitions = nil
				continue
			}
			if online {
				m.trigger(ctx, "online")
			}
		case <-ticker.C:
			if m.conn.Online() {
				m.trigger(ctx, "periodic")
			}
		}
	}
}

func (m *Manager) trigger(ctx context.Context, reason string) {
	m.logger.Debug("Sync triggered", "reason", reason)
	result := m.Sync(ctx)
	if !result.Success {
		m.logger.Debug("Triggered sync did not succeed", "reason", reason, "errors", result.Errors)
	}
}

func rejected(msg string) Result {
	return Result{Success: false, Errors: []string{msg}}
}

// sleep ждет d или отмены контекста
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
