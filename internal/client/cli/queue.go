package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runQueue(ctx context.Context) error {
	entries, err := c.store.Drain(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}

	if err := queueTmpl.Execute(c.io, entries); err != nil {
		return fmt.Errorf("failed to render queue: %w", err)
	}
	return nil
}
