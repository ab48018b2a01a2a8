package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/dashsync/internal/models"
)

// ResolveStore is the part of the record store used for conflict resolution
type ResolveStore interface {
	CompleteEntry(ctx context.Context, id string) error
	ResolveEntry(ctx context.Context, id string, server *models.Record) error
}

// Resolver applies last-writer-wins by lastModified when the server answers 409
type Resolver struct {
	api    RemoteAPI
	store  ResolveStore
	logger *slog.Logger
}

// NewResolver creates a conflict resolver
func NewResolver(api RemoteAPI, store ResolveStore, logger *slog.Logger) *Resolver {
	return &Resolver{api: api, store: store, logger: logger}
}

// Resolve settles a conflict between the queued mutation and the server record.
//
// If the queued record is strictly newer it is force-pushed and stays authoritative,
// otherwise the server version replaces the local record wholesale. A record with
// later queued mutations is left to the outcome of those mutations.
// In both cases the queue entry is completed.
func (r *Resolver) Resolve(ctx context.Context, entry *models.QueueEntry, server *models.Record) error {
	local := entry.Data
	if local == nil {
		return fmt.Errorf("queue entry %s carries no record", entry.ID)
	}

	if local.IsNewerThan(server) {
		r.logger.Info("Conflict resolved, local version wins",
			"entry_id", entry.ID,
			"local_modified", local.LastModified,
			"server_modified", server.LastModified)

		var err error
		if entry.Action == models.ActionDelete {
			err = r.api.ForceDelete(ctx, entry.Collection, entry.RecordID())
		} else {
			err = r.api.ForceUpdate(ctx, local)
		}
		if err != nil {
			return fmt.Errorf("forced write failed: %w", err)
		}

		conflictCounter.WithLabelValues("local").Inc()
		return r.store.CompleteEntry(ctx, entry.ID)
	}

	r.logger.Info("Conflict resolved, server version wins",
		"entry_id", entry.ID,
		"local_modified", local.LastModified,
		"server_modified", server.LastModified)

	conflictCounter.WithLabelValues("server").Inc()
	return r.store.ResolveEntry(ctx, entry.ID, server)
}
