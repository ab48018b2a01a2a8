// Package cli implements the dashsync command line client.
package cli

import (
	"context"
	"time"

	"github.com/iudanet/dashsync/internal/client/data"
	"github.com/iudanet/dashsync/internal/client/iocli"
	"github.com/iudanet/dashsync/internal/client/status"
	"github.com/iudanet/dashsync/internal/client/sync"
	"github.com/iudanet/dashsync/internal/models"
)

// Syncer runs a manual sync pass
type Syncer interface {
	ForceSync(ctx context.Context) sync.Result
}

// Store is the read side of the local store used by status and queue commands
type Store interface {
	status.Source
	Drain(ctx context.Context) ([]*models.QueueEntry, error)
}

// Connectivity checks whether the server is reachable
type Connectivity interface {
	Probe(ctx context.Context) bool
}

// Cli содержит зависимости команд одного запуска клиента
type Cli struct {
	io          iocli.IO
	dataService data.Service
	syncer      Syncer
	store       Store
	conn        Connectivity
	now         func() time.Time
}

func New(io iocli.IO, dataService data.Service, syncer Syncer, store Store, conn Connectivity) *Cli {
	return &Cli{
		io:          io,
		dataService: dataService,
		syncer:      syncer,
		store:       store,
		conn:        conn,
		now:         time.Now,
	}
}
