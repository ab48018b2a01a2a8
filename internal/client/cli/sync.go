package cli

import (
	"context"
	"errors"

	"github.com/iudanet/dashsync/internal/client/status"
)

// ErrSyncFailed is returned when a manual pass did not succeed
var ErrSyncFailed = errors.New("synchronization finished with errors")

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	// Состояние сети обновляется до запуска прохода
	c.conn.Probe(ctx)

	result := c.syncer.ForceSync(ctx)

	c.io.Printf("Synced: %d\n", result.Synced)
	c.io.Printf("Failed: %d\n", result.Failed)

	if len(result.Errors) > 0 {
		c.io.Println()
		c.io.Println("Errors:")
		for _, msg := range status.SummarizeErrors(result.Errors, status.MaxShownErrors) {
			c.io.Printf("  %s\n", msg)
		}
	}

	c.io.Println()
	if !result.Success {
		return ErrSyncFailed
	}

	c.io.Println("✓ Synchronization completed successfully!")
	return nil
}
