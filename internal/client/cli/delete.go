package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/dashsync/internal/client/storage"
	"github.com/iudanet/dashsync/internal/models"
)

func (c *Cli) runDelete(ctx context.Context, collection models.Collection, id string, force bool) error {
	record, err := c.dataService.Get(ctx, collection, id)
	if err != nil {
		return notFound(err, collection, id)
	}

	if !force {
		c.io.Printf("Record %s/%s dated %s will be deleted.\n", collection, record.ID, record.Date.Local().Format("2006-01-02"))
		answer, err := c.io.ReadInput("Are you sure? (yes/no): ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if a := strings.ToLower(answer); a != "yes" && a != "y" {
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.dataService.Delete(ctx, collection, id); err != nil {
		return notFound(err, collection, id)
	}

	c.io.Printf("✓ Deleted %s record %s (pending sync)\n", collection, id)
	return nil
}

func notFound(err error, collection models.Collection, id string) error {
	if errors.Is(err, storage.ErrRecordNotFound) {
		return fmt.Errorf("record not found: %s/%s", collection, id)
	}
	return err
}
