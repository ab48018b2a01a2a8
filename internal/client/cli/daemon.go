package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	stdsync "sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/dashsync/internal/client/netstatus"
	"github.com/iudanet/dashsync/internal/client/sync"
)

const shutdownTimeout = 5 * time.Second

// Daemon keeps the client in sync in the background: it probes the server,
// runs the sync manager and optionally serves Prometheus metrics
type Daemon struct {
	monitor     *netstatus.Monitor
	manager     *sync.Manager
	logger      *slog.Logger
	metricsAddr string
}

func NewDaemon(monitor *netstatus.Monitor, manager *sync.Manager, metricsAddr string, logger *slog.Logger) *Daemon {
	return &Daemon{
		monitor:     monitor,
		manager:     manager,
		logger:      logger,
		metricsAddr: metricsAddr,
	}
}

// Run blocks until ctx is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	unsubscribe := d.manager.Subscribe(func(r sync.Result) {
		if r.Success {
			d.logger.Info("Sync pass finished", "synced", r.Synced)
			return
		}
		d.logger.Warn("Sync pass finished with errors",
			"synced", r.Synced,
			"failed", r.Failed,
			"errors", len(r.Errors),
		)
	})
	defer unsubscribe()

	var wg stdsync.WaitGroup
	defer wg.Wait()

	// cancel срабатывает раньше wg.Wait, поэтому горутины завершаются и при ошибке запуска
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.monitor.Run(ctx)
	}()

	if err := d.manager.Start(ctx); err != nil {
		return err
	}
	defer d.manager.Stop()

	if d.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:              d.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.logger.Info("Metrics server listening", "addr", d.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error("Metrics server failed", "error", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				d.logger.Error("Metrics server shutdown failed", "error", err)
			}
		}()
	}

	d.logger.Info("Daemon started")
	<-ctx.Done()
	d.logger.Info("Daemon stopping")

	return nil
}
