// Package netstatus tracks whether the sync server is reachable.
package netstatus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/dashsync/pkg/api"
)

const (
	DefaultProbeInterval = 30 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

//go:generate moq -out prober_mock.go . Prober

// Prober checks the health endpoint of the server
type Prober interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// broadcaster рассылает переходы online/offline подписчикам.
// Каждый канал хранит только последнее состояние и никогда не блокирует отправителя.
type broadcaster struct {
	subs map[int]chan bool
	mu   sync.Mutex
	next int
}

// Subscribe returns a channel receiving the new state on every transition
// and a function that unsubscribes and closes the channel
func (b *broadcaster) Subscribe() (<-chan bool, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan bool)
	}
	id := b.next
	b.next++
	ch := make(chan bool, 1)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *broadcaster) publish(online bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		// Вытесняем непрочитанное состояние, подписчику важно только последнее
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

// Monitor periodically probes the server and reports connectivity
type Monitor struct {
	prober   Prober
	logger   *slog.Logger
	broadcaster
	interval time.Duration
	timeout  time.Duration
	online   atomic.Bool
}

// NewMonitor creates a monitor; the device is considered offline until the first probe succeeds
func NewMonitor(prober Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Monitor{
		prober:   prober,
		logger:   logger,
		interval: interval,
		timeout:  DefaultProbeTimeout,
	}
}

// Online reports the result of the last probe
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Probe checks the server once and publishes a transition if the state changed
func (m *Monitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.prober.Health(ctx)
	online := err == nil && resp != nil && resp.Status == "ok"
	if err != nil {
		m.logger.Debug("Health probe failed", "error", err)
	}

	m.set(online)
	return online
}

// Run probes immediately and then every interval until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

func (m *Monitor) set(online bool) {
	if m.online.Swap(online) == online {
		return
	}
	m.logger.Info("Connectivity changed", "online", online)
	connectivityGauge.Set(boolToFloat(online))
	m.publish(online)
}

// Static is a connectivity source switched by hand
type Static struct {
	broadcaster
	online atomic.Bool
}

// NewStatic creates a Static source with the given initial state
func NewStatic(online bool) *Static {
	s := &Static{}
	s.online.Store(online)
	return s
}

// Online returns the current state
func (s *Static) Online() bool {
	return s.online.Load()
}

// Set changes the state and publishes a transition if it changed
func (s *Static) Set(online bool) {
	if s.online.Swap(online) == online {
		return
	}
	s.publish(online)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
