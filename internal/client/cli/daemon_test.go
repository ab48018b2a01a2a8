package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/client/data"
	"github.com/iudanet/dashsync/internal/client/netstatus"
	"github.com/iudanet/dashsync/internal/client/sync"
	"github.com/iudanet/dashsync/internal/models"
	pkgapi "github.com/iudanet/dashsync/pkg/api"
)

func TestDaemon_SyncsQueuedRecords(t *testing.T) {
	received := make(chan models.Record, 4)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+pkgapi.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pkgapi.HealthResponse{Status: "ok", Time: time.Now().UnixMilli()})
	})
	mux.HandleFunc("POST /api/{collection}", func(w http.ResponseWriter, r *http.Request) {
		var rec models.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		received <- rec
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rec)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	store := newTestStore(t)
	svc := data.NewService(store)

	created, err := svc.Create(ctx, &models.Task{Title: "Ship it", Priority: models.PriorityHigh, CreatedAt: testNow})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(server.URL, "")
	monitor := netstatus.NewMonitor(client, time.Hour, logger)
	manager := sync.NewManager(client, store, monitor, sync.Config{
		Interval:         time.Hour,
		ItemDelay:        0,
		MaxRetryAttempts: sync.MaxRetryAttempts,
	}, logger)

	daemon := NewDaemon(monitor, manager, "127.0.0.1:0", logger)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- daemon.Run(runCtx) }()

	select {
	case rec := <-received:
		assert.Equal(t, created.ID, rec.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not push the queued record")
	}

	require.Eventually(t, func() bool {
		n, err := store.QueueLength(ctx)
		return err == nil && n == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}

	record, err := store.GetRecord(ctx, models.CollectionTasks, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, record.SyncStatus)

	ts, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.NotZero(t, ts)
}

func TestDaemon_StartFailureReturnsPromptly(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient("http://127.0.0.1:1", "")
	monitor := netstatus.NewMonitor(client, time.Hour, logger)
	manager := sync.NewManager(client, newTestStore(t), monitor, sync.Config{
		Interval:         time.Hour,
		MaxRetryAttempts: sync.MaxRetryAttempts,
	}, logger)

	ctx := context.Background()
	require.NoError(t, manager.Start(ctx))
	defer manager.Stop()

	done := make(chan error, 1)
	go func() { done <- NewDaemon(monitor, manager, "", logger).Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, sync.ErrAlreadyStarted)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not return after a failed start")
	}
}
