package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/dashsync/internal/client/status"
)

func (c *Cli) runStatus(ctx context.Context, asJSON bool) error {
	online := c.conn.Probe(ctx)

	snap, err := status.Collect(ctx, c.store, online)
	if err != nil {
		return fmt.Errorf("failed to collect status: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(c.io)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	c.io.Printf("%s", status.Render(snap, c.now()))
	return nil
}
