package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/dashsync/internal/models"
)

func (c *Cli) runGet(ctx context.Context, collection models.Collection, id string) error {
	record, err := c.dataService.Get(ctx, collection, id)
	if err != nil {
		return notFound(err, collection, id)
	}

	if err := recordTmpl.Execute(c.io, record); err != nil {
		return fmt.Errorf("failed to render record: %w", err)
	}
	return nil
}
