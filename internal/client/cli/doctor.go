package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDoctor(ctx context.Context, repair bool) error {
	c.io.Println("=== Consistency check ===")
	c.io.Println()

	orphans, err := c.dataService.CheckConsistency(ctx)
	if err != nil {
		return fmt.Errorf("consistency check failed: %w", err)
	}

	if len(orphans) == 0 {
		c.io.Println("✓ Every pending record has a queued mutation")
		return nil
	}

	c.io.Printf("Found %d pending record(s) without a queued mutation:\n", len(orphans))
	for _, r := range orphans {
		c.io.Printf("  %s/%s\n", r.Collection, r.ID)
	}
	c.io.Println()

	if !repair {
		c.io.Println("Run 'dashsync doctor --repair' to queue them again.")
		return nil
	}

	n, err := c.dataService.RepairConsistency(ctx)
	if err != nil {
		return fmt.Errorf("repair stopped after %d record(s): %w", n, err)
	}

	c.io.Printf("✓ Queued %d record(s) for sync\n", n)
	return nil
}
